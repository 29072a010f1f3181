package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"checklists/internal/model"
	"checklists/internal/repository"
	"checklists/internal/testutil"
)

type fixture struct {
	store *repository.Store
	lists *ListService
	tasks *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	return &fixture{
		store: store,
		lists: NewListService(store, zerolog.Nop()),
		tasks: NewTaskService(store, zerolog.Nop()),
	}
}

func (f *fixture) list(t *testing.T, userID, title string) *model.TodoList {
	t.Helper()
	list, err := f.lists.CreateList(context.Background(), userID, title)
	require.NoError(t, err)
	return list
}

func (f *fixture) task(t *testing.T, userID, listID, title string) *model.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), userID, TaskInput{ListID: listID, Title: title})
	require.NoError(t, err)
	return task
}

// activeOrders returns title -> order for the active tasks of a list.
func (f *fixture) activeOrders(t *testing.T, userID, listID string) map[string]int {
	t.Helper()
	tasks, err := f.tasks.ListTasks(context.Background(), userID, TaskQuery{ListID: listID})
	require.NoError(t, err)
	out := make(map[string]int, len(tasks))
	for _, task := range tasks {
		out[task.Title] = task.Order
	}
	return out
}

func requireDense(t *testing.T, f *fixture, userID, listID string) {
	t.Helper()
	tasks, err := f.tasks.ListTasks(context.Background(), userID, TaskQuery{ListID: listID})
	require.NoError(t, err)
	for i, task := range tasks {
		require.Equalf(t, i, task.Order, "task %q", task.Title)
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}
