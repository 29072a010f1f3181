package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
)

// ListService provides the list lifecycle. Trashing, restoring and purging a
// list cascade to its tasks inside one transaction.
type ListService struct {
	store *repository.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewListService(store *repository.Store, log zerolog.Logger) *ListService {
	return &ListService{
		store: store,
		log:   log.With().Str("component", "lists").Logger(),
		now:   time.Now,
	}
}

// ListLists returns the user's lists with stats, oldest first. Lists and
// tasks are read in the same transaction so stats match the lists.
func (s *ListService) ListLists(ctx context.Context, userID string, includeTrashed bool) ([]model.ListWithStats, error) {
	var states []model.LifecycleState
	if !includeTrashed {
		states = []model.LifecycleState{model.StateActive}
	}

	var out []model.ListWithStats
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		lists, err := tx.Lists.ListByUser(ctx, userID, states...)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			return nil
		}
		tasks, err := tx.Tasks.List(ctx, repository.TaskFilter{
			UserID: userID,
			States: []model.LifecycleState{model.StateActive},
		})
		if err != nil {
			return err
		}
		out = withStats(lists, tasks, s.now())
		return nil
	})
	if err != nil {
		return nil, internal("could not list checklists", err)
	}
	if out == nil {
		out = []model.ListWithStats{}
	}
	return out, nil
}

// ListTrashedLists returns the user's trashed lists with stats of their
// active tasks, which after a cascade is zero.
func (s *ListService) ListTrashedLists(ctx context.Context, userID string) ([]model.ListWithStats, error) {
	lists, err := s.store.Lists.ListByUser(ctx, userID, model.StateTrashed)
	if err != nil {
		return nil, internal("could not list deleted checklists", err)
	}
	out := make([]model.ListWithStats, 0, len(lists))
	for _, list := range lists {
		out = append(out, model.ListWithStats{TodoList: list})
	}
	return out, nil
}

// GetList returns a single list with stats.
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*model.ListWithStats, error) {
	var out *model.ListWithStats
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		list, err := resolveList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		tasks, err := activeTasks(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		out = &model.ListWithStats{TodoList: *list, Stats: ComputeStats(tasks, s.now())}
		return nil
	})
	if err != nil {
		return nil, internal("could not load checklist", err)
	}
	return out, nil
}

func (s *ListService) CreateList(ctx context.Context, userID, title string) (*model.TodoList, error) {
	clean, err := cleanTitle(title, apperr.CodeListMissingTitle, "checklist")
	if err != nil {
		return nil, err
	}
	list := model.TodoList{UserID: userID, Title: clean, State: model.StateActive}
	if err := s.store.Lists.Create(ctx, &list); err != nil {
		return nil, internal("could not create checklist", err)
	}
	s.log.Debug().Str("list", list.ID).Str("user", userID).Msg("list created")
	return &list, nil
}

// UpdateListTitle renames a list. Trashed lists may be renamed too.
func (s *ListService) UpdateListTitle(ctx context.Context, userID, listID, title string) (*model.TodoList, error) {
	clean, err := cleanTitle(title, apperr.CodeListMissingTitle, "checklist")
	if err != nil {
		return nil, err
	}
	var list *model.TodoList
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		list, err = resolveList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if err := tx.Lists.UpdateTitle(ctx, list, clean); err != nil {
			return err
		}
		list.Title = clean
		return nil
	})
	if err != nil {
		return nil, internal("could not update checklist", err)
	}
	return list, nil
}

// SoftDeleteList trashes the list's active tasks and then the list itself.
// Trashing a trashed list is a no-op.
func (s *ListService) SoftDeleteList(ctx context.Context, userID, listID string) error {
	var moved int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		list, err := resolveList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		outcome, next, err := Decide(EntityList, list.State, EventSoftDelete)
		if err != nil || outcome == OutcomeNoop {
			return err
		}
		moved, err = tx.Tasks.SetStateByList(ctx, userID, listID,
			[]model.LifecycleState{model.StateActive}, model.StateTrashed)
		if err != nil {
			return err
		}
		return tx.Lists.SetState(ctx, list, next)
	})
	if err != nil {
		return internal("could not delete checklist", err)
	}
	s.log.Info().Str("list", listID).Int64("tasks", moved).Msg("list trashed")
	return nil
}

// RestoreList reactivates the list first, then every task in it, and renumbers
// the tasks densely by their previous order.
func (s *ListService) RestoreList(ctx context.Context, userID, listID string) error {
	var moved int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		list, err := resolveList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		_, next, err := Decide(EntityList, list.State, EventRestore)
		if err != nil {
			return err
		}
		if err := tx.Lists.SetState(ctx, list, next); err != nil {
			return err
		}
		moved, err = tx.Tasks.SetStateByList(ctx, userID, listID,
			[]model.LifecycleState{model.StateTrashed}, model.StateActive)
		if err != nil {
			return err
		}
		tasks, err := activeTasks(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		return compactOrders(ctx, tx, tasks)
	})
	if err != nil {
		return internal("could not restore checklist", err)
	}
	s.log.Info().Str("list", listID).Int64("tasks", moved).Msg("list restored")
	return nil
}

// PurgeList permanently deletes a trashed list and all of its tasks.
func (s *ListService) PurgeList(ctx context.Context, userID, listID string) error {
	var removed int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		list, err := resolveList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if _, _, err := Decide(EntityList, list.State, EventPurge); err != nil {
			return err
		}
		removed, err = tx.Tasks.DeleteByList(ctx, userID, listID)
		if err != nil {
			return err
		}
		return tx.Lists.Delete(ctx, userID, listID)
	})
	if err != nil {
		return internal("could not permanently delete checklist", err)
	}
	s.log.Info().Str("list", listID).Int64("tasks", removed).Msg("list purged")
	return nil
}

func withStats(lists []model.TodoList, tasks []model.Task, now time.Time) []model.ListWithStats {
	byList := make(map[string][]model.Task, len(lists))
	for _, task := range tasks {
		byList[task.ListID] = append(byList[task.ListID], task)
	}
	out := make([]model.ListWithStats, 0, len(lists))
	for _, list := range lists {
		out = append(out, model.ListWithStats{
			TodoList: list,
			Stats:    ComputeStats(byList[list.ID], now),
		})
	}
	return out
}
