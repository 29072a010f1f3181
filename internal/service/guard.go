package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
)

// resolveList loads a list by id and owner. A list owned by someone else is
// reported exactly like a missing one.
func resolveList(ctx context.Context, st *repository.Store, userID, listID string) (*model.TodoList, error) {
	if userID == "" || listID == "" {
		return nil, errListNotFound()
	}
	list, err := st.Lists.FindOwned(ctx, userID, listID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errListNotFound()
	}
	if err != nil {
		return nil, apperr.Internal("could not load checklist", err)
	}
	return list, nil
}

// resolveTask loads a task by id and owner, with the same rules as resolveList.
func resolveTask(ctx context.Context, st *repository.Store, userID, taskID string) (*model.Task, error) {
	if userID == "" || taskID == "" {
		return nil, errTaskNotFound()
	}
	task, err := st.Tasks.FindOwned(ctx, userID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errTaskNotFound()
	}
	if err != nil {
		return nil, apperr.Internal("could not load todo", err)
	}
	return task, nil
}

func errListNotFound() error {
	return apperr.NotFound(apperr.CodeListNotFound, "checklist not found")
}

func errTaskNotFound() error {
	return apperr.NotFound(apperr.CodeTodoNotFound, "todo not found")
}

// internal passes typed errors through and wraps anything else.
func internal(message string, err error) error {
	if err == nil {
		return nil
	}
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	return apperr.Internal(message, err)
}
