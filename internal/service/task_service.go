package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title    string
	ListID   string
	DueDate  *time.Time
	Priority model.Priority
	Notes    string
	Labels   []string
}

// TaskUpdate lists the fields a caller may change. Nil fields are left as
// they are; ClearDueDate removes the due date.
type TaskUpdate struct {
	Title        *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *model.Priority
	Notes        *string
	Labels       *[]string
}

// TaskQuery filters ListTasks.
type TaskQuery struct {
	ListID         string
	IncludeTrashed bool
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store *repository.Store
	log   zerolog.Logger
}

func NewTaskService(store *repository.Store, log zerolog.Logger) *TaskService {
	return &TaskService{
		store: store,
		log:   log.With().Str("component", "tasks").Logger(),
	}
}

// ListTasks returns the user's tasks sorted by (order, createdAt). With a
// ListID the list must belong to the user, trashed or not.
func (s *TaskService) ListTasks(ctx context.Context, userID string, q TaskQuery) ([]model.Task, error) {
	filter := repository.TaskFilter{UserID: userID, ListID: q.ListID}
	if !q.IncludeTrashed {
		filter.States = []model.LifecycleState{model.StateActive}
	}

	var tasks []model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if q.ListID != "" {
			if _, err := resolveList(ctx, tx, userID, q.ListID); err != nil {
				return err
			}
		}
		var err error
		tasks, err = tx.Tasks.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, internal("could not list todos", err)
	}
	return tasks, nil
}

// ListTrashedTasks returns every trashed task of the user.
func (s *TaskService) ListTrashedTasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.store.Tasks.List(ctx, repository.TaskFilter{
		UserID: userID,
		States: []model.LifecycleState{model.StateTrashed},
	})
	if err != nil {
		return nil, internal("could not list deleted todos", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	return resolveTask(ctx, s.store, userID, taskID)
}

// CreateTask appends a task to an active list.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input TaskInput) (*model.Task, error) {
	listID := strings.TrimSpace(input.ListID)
	if listID == "" {
		return nil, apperr.Validation(apperr.CodeTodoMissingList, "checklist (list) is required")
	}
	title, err := cleanTitle(input.Title, apperr.CodeTodoMissingTitle, "todo")
	if err != nil {
		return nil, err
	}
	if err := checkPriority(input.Priority); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:   userID,
		ListID:   listID,
		Title:    title,
		State:    model.StateActive,
		DueDate:  input.DueDate,
		Priority: input.Priority,
		Notes:    strings.TrimSpace(input.Notes),
		Labels:   model.NewLabels(input.Labels),
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		list, err := resolveList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if list.IsTrashed() {
			return errListTrashed()
		}
		order, err := nextOrder(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		task.Order = order
		return tx.Tasks.Create(ctx, &task)
	})
	if err != nil {
		return nil, internal("could not create todo", err)
	}

	s.log.Debug().Str("task", task.ID).Str("list", task.ListID).Int("order", task.Order).Msg("task created")
	return &task, nil
}

// UpdateTask applies the whitelisted fields in upd.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, upd TaskUpdate) (*model.Task, error) {
	fields := make(map[string]interface{})
	if upd.Title != nil {
		title, err := cleanTitle(*upd.Title, apperr.CodeTodoMissingTitle, "todo")
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if upd.Completed != nil {
		fields["completed"] = *upd.Completed
	}
	switch {
	case upd.ClearDueDate:
		fields["due_date"] = nil
	case upd.DueDate != nil:
		fields["due_date"] = *upd.DueDate
	}
	if upd.Priority != nil {
		if err := checkPriority(*upd.Priority); err != nil {
			return nil, err
		}
		fields["priority"] = *upd.Priority
	}
	if upd.Notes != nil {
		fields["notes"] = strings.TrimSpace(*upd.Notes)
	}
	if upd.Labels != nil {
		fields["labels"] = model.NewLabels(*upd.Labels)
	}

	var updated *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := resolveTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if err := tx.Tasks.Update(ctx, task, fields); err != nil {
			return err
		}
		updated, err = resolveTask(ctx, tx, userID, taskID)
		return err
	})
	if err != nil {
		return nil, internal("could not update todo", err)
	}
	return updated, nil
}

// SoftDeleteTask moves an active task to the trash and closes the gap it
// leaves in its list. Trashing a trashed task is a no-op.
func (s *TaskService) SoftDeleteTask(ctx context.Context, userID, taskID string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := resolveTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		outcome, next, err := Decide(EntityTask, task.State, EventSoftDelete)
		if err != nil || outcome == OutcomeNoop {
			return err
		}
		if err := tx.Tasks.SetState(ctx, task, next); err != nil {
			return err
		}
		remaining, err := activeTasks(ctx, tx, userID, task.ListID)
		if err != nil {
			return err
		}
		return compactOrders(ctx, tx, remaining)
	})
	if err != nil {
		return internal("could not delete todo", err)
	}
	s.log.Debug().Str("task", taskID).Msg("task trashed")
	return nil
}

// RestoreTask brings a trashed task back to the end of its list. The list
// itself must be active.
func (s *TaskService) RestoreTask(ctx context.Context, userID, taskID string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := resolveTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		_, next, err := Decide(EntityTask, task.State, EventRestore)
		if err != nil {
			return err
		}
		list, err := resolveList(ctx, tx, userID, task.ListID)
		if err != nil {
			return err
		}
		if list.IsTrashed() {
			return errListTrashed()
		}
		order, err := nextOrder(ctx, tx, userID, task.ListID)
		if err != nil {
			return err
		}
		return tx.Tasks.Update(ctx, task, map[string]interface{}{
			"state":      next,
			"sort_order": order,
		})
	})
	if err != nil {
		return internal("could not restore todo", err)
	}
	s.log.Debug().Str("task", taskID).Msg("task restored")
	return nil
}

// PurgeTask permanently deletes a trashed task.
func (s *TaskService) PurgeTask(ctx context.Context, userID, taskID string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := resolveTask(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		if _, _, err := Decide(EntityTask, task.State, EventPurge); err != nil {
			return err
		}
		return tx.Tasks.Delete(ctx, userID, task.ID)
	})
	if err != nil {
		return internal("could not permanently delete todo", err)
	}
	s.log.Info().Str("task", taskID).Msg("task purged")
	return nil
}

// ReorderTasks sets each active task's order to its position in ids. ids
// must be exactly the list's active tasks; otherwise nothing is written.
func (s *TaskService) ReorderTasks(ctx context.Context, userID, listID string, ids []string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := resolveList(ctx, tx, userID, listID); err != nil {
			return err
		}
		active, err := activeTasks(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if err := validateReorder(active, ids); err != nil {
			return err
		}
		byID := make(map[string]*model.Task, len(active))
		for i := range active {
			byID[active[i].ID] = &active[i]
		}
		for pos, id := range ids {
			task := byID[id]
			if task.Order == pos {
				continue
			}
			if err := tx.Tasks.SetOrder(ctx, task, pos); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internal("could not reorder todos", err)
	}
	return nil
}

// CompleteTask marks a task as done.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	done := true
	return s.UpdateTask(ctx, userID, taskID, TaskUpdate{Completed: &done})
}

func errListTrashed() error {
	return apperr.Conflict(apperr.CodeListTrashed, "checklist is in trash")
}
