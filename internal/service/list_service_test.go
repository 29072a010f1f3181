package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
)

func TestListService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lists.CreateList(ctx, "alice", " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, apperr.CodeListMissingTitle, apperr.CodeOf(err))

	long := make([]byte, MaxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.lists.CreateList(ctx, "alice", string(long))
	assert.Equal(t, apperr.CodeTitleTooLong, apperr.CodeOf(err))

	list, err := f.lists.CreateList(ctx, "alice", "  Groceries ")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", list.Title)
	assert.Equal(t, model.StateActive, list.State)
	assert.Equal(t, "alice", list.UserID)
}

func TestListService_ListListsWithStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	f.lists.now = func() time.Time { return now }

	home := f.list(t, "alice", "Home")
	f.list(t, "alice", "Empty")
	due := now.Add(24 * time.Hour)
	_, err := f.tasks.CreateTask(ctx, "alice", TaskInput{ListID: home.ID, Title: "Dishes", DueDate: &due})
	require.NoError(t, err)
	laundry := f.task(t, "alice", home.ID, "Laundry")
	_, err = f.tasks.CompleteTask(ctx, "alice", laundry.ID)
	require.NoError(t, err)
	gone := f.task(t, "alice", home.ID, "Gone")
	require.NoError(t, f.tasks.SoftDeleteTask(ctx, "alice", gone.ID))

	lists, err := f.lists.ListLists(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Home", lists[0].Title)
	assert.Equal(t, model.ListStats{Total: 2, Completed: 1, UpcomingDue: 1}, lists[0].Stats)
	assert.Equal(t, model.ListStats{}, lists[1].Stats)

	got, err := f.lists.GetList(ctx, "alice", home.ID)
	require.NoError(t, err)
	assert.Equal(t, lists[0].Stats, got.Stats)

	none, err := f.lists.ListLists(ctx, "bob", false)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListService_SoftDeleteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Groceries")
	f.task(t, "alice", list.ID, "Milk")
	f.task(t, "alice", list.ID, "Eggs")
	keep := f.list(t, "alice", "Keep")

	require.NoError(t, f.lists.SoftDeleteList(ctx, "alice", list.ID))

	active, err := f.lists.ListLists(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	all, err := f.lists.ListLists(ctx, "alice", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tasks, err := f.tasks.ListTasks(ctx, "alice", TaskQuery{ListID: list.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	trashedLists, err := f.lists.ListTrashedLists(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, trashedLists, 1)
	assert.Equal(t, "Groceries", trashedLists[0].Title)

	trashedTasks, err := f.tasks.ListTrashedTasks(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Milk", "Eggs"}, titles(trashedTasks))

	// cascade: list and every task are trashed together
	everything, err := f.store.Tasks.List(ctx, repository.TaskFilter{UserID: "alice", ListID: list.ID})
	require.NoError(t, err)
	for _, task := range everything {
		assert.Equal(t, model.StateTrashed, task.State)
	}

	// trashing again is a no-op
	require.NoError(t, f.lists.SoftDeleteList(ctx, "alice", list.ID))
}

func TestListService_RestoreScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Groceries")
	milk := f.task(t, "alice", list.ID, "Milk")
	eggs := f.task(t, "alice", list.ID, "Eggs")
	require.NoError(t, f.tasks.ReorderTasks(ctx, "alice", list.ID, []string{eggs.ID, milk.ID}))

	require.NoError(t, f.lists.SoftDeleteList(ctx, "alice", list.ID))
	require.NoError(t, f.lists.RestoreList(ctx, "alice", list.ID))

	got, err := f.lists.GetList(ctx, "alice", list.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateActive, got.State)
	assert.Equal(t, map[string]int{"Eggs": 0, "Milk": 1}, f.activeOrders(t, "alice", list.ID))
}

func TestListService_RestoreBringsBackIndividuallyTrashedTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Chores")
	f.task(t, "alice", list.ID, "A")
	b := f.task(t, "alice", list.ID, "B")
	f.task(t, "alice", list.ID, "C")

	require.NoError(t, f.tasks.SoftDeleteTask(ctx, "alice", b.ID))
	require.NoError(t, f.lists.SoftDeleteList(ctx, "alice", list.ID))
	require.NoError(t, f.lists.RestoreList(ctx, "alice", list.ID))

	tasks, err := f.tasks.ListTasks(ctx, "alice", TaskQuery{ListID: list.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
	requireDense(t, f, "alice", list.ID)

	trashed, err := f.tasks.ListTrashedTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, trashed)
}

func TestListService_RestoreTaskIntoTrashedListConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Chores")
	task := f.task(t, "alice", list.ID, "A")
	require.NoError(t, f.lists.SoftDeleteList(ctx, "alice", list.ID))

	err := f.tasks.RestoreTask(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, apperr.CodeListTrashed, apperr.CodeOf(err))
}

func TestListService_PurgeRequiresTrash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Keep")
	f.task(t, "alice", list.ID, "A")

	err := f.lists.PurgeList(ctx, "alice", list.ID)
	assert.ErrorIs(t, err, apperr.ErrNotInTrash)
	assert.Equal(t, apperr.CodeListNotInTrash, apperr.CodeOf(err))

	err = f.lists.RestoreList(ctx, "alice", list.ID)
	assert.ErrorIs(t, err, apperr.ErrNotInTrash)

	_, err = f.lists.GetList(ctx, "alice", list.ID)
	require.NoError(t, err)
	assert.Len(t, f.activeOrders(t, "alice", list.ID), 1)
}

func TestListService_PurgeRemovesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Old")
	task := f.task(t, "alice", list.ID, "A")
	other := f.list(t, "alice", "Other")
	f.task(t, "alice", other.ID, "B")

	require.NoError(t, f.lists.SoftDeleteList(ctx, "alice", list.ID))
	require.NoError(t, f.lists.PurgeList(ctx, "alice", list.ID))

	_, err := f.lists.GetList(ctx, "alice", list.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.tasks.GetTask(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := f.tasks.ListTasks(ctx, "alice", TaskQuery{IncludeTrashed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(all))
}

func TestListService_OwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Private")

	_, err := f.lists.GetList(ctx, "bob", list.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.lists.UpdateListTitle(ctx, "bob", list.ID, "Mine")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.lists.SoftDeleteList(ctx, "bob", list.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, f.lists.RestoreList(ctx, "bob", list.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, f.lists.PurgeList(ctx, "bob", list.ID), apperr.ErrNotFound)

	got, err := f.lists.GetList(ctx, "alice", list.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
	assert.Equal(t, model.StateActive, got.State)
}

func TestListService_UpdateTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.list(t, "alice", "Draft")

	updated, err := f.lists.UpdateListTitle(ctx, "alice", list.ID, " Final ")
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)

	_, err = f.lists.UpdateListTitle(ctx, "alice", list.ID, "")
	assert.Equal(t, apperr.CodeListMissingTitle, apperr.CodeOf(err))
}
