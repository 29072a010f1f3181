package service

import (
	"context"
	"fmt"
	"sort"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
)

// nextOrder returns one past the highest active order in the list, or 0.
// Gaps are never reused.
func nextOrder(ctx context.Context, st *repository.Store, userID, listID string) (int, error) {
	max, ok, err := st.Tasks.MaxActiveOrder(ctx, userID, listID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return max + 1, nil
}

func activeTasks(ctx context.Context, st *repository.Store, userID, listID string) ([]model.Task, error) {
	return st.Tasks.List(ctx, repository.TaskFilter{
		UserID: userID,
		ListID: listID,
		States: []model.LifecycleState{model.StateActive},
	})
}

// sortTasks orders tasks by (order, createdAt, id).
func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// compactOrders renumbers tasks to 0..n-1 in their sorted order, writing only
// rows whose order changes.
func compactOrders(ctx context.Context, st *repository.Store, tasks []model.Task) error {
	sortTasks(tasks)
	for i := range tasks {
		if tasks[i].Order == i {
			continue
		}
		if err := st.Tasks.SetOrder(ctx, &tasks[i], i); err != nil {
			return err
		}
		tasks[i].Order = i
	}
	return nil
}

// validateReorder checks that ids is exactly the set of active task ids.
func validateReorder(active []model.Task, ids []string) error {
	if len(ids) != len(active) {
		return apperr.IncompleteReorderSet(apperr.CodeIncompleteReorderSet,
			fmt.Sprintf("reorder must list all %d active todos, got %d", len(active), len(ids)))
	}
	known := make(map[string]struct{}, len(active))
	for _, t := range active {
		known[t.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return apperr.IncompleteReorderSet(apperr.CodeReorderUnknownTodo, "reorder references a todo that is not active in this checklist")
		}
		if _, dup := seen[id]; dup {
			return apperr.IncompleteReorderSet(apperr.CodeReorderDuplicateTodo, "reorder lists a todo more than once")
		}
		seen[id] = struct{}{}
	}
	return nil
}
