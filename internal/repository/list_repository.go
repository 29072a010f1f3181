package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"checklists/internal/model"
)

// ListRepository manages todo lists. Every lookup is scoped by owner.
type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(ctx context.Context, list *model.TodoList) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

// FindOwned returns gorm.ErrRecordNotFound when the list is missing or owned
// by someone else.
func (r *ListRepository) FindOwned(ctx context.Context, userID, listID string) (*model.TodoList, error) {
	var list model.TodoList
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, listID).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByUser returns the user's lists in the given states, oldest first.
func (r *ListRepository) ListByUser(ctx context.Context, userID string, states ...model.LifecycleState) ([]model.TodoList, error) {
	var lists []model.TodoList
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(states) > 0 {
		q = q.Where("state IN ?", states)
	}
	if err := q.Order("created_at ASC, id ASC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return lists, nil
}

func (r *ListRepository) UpdateTitle(ctx context.Context, list *model.TodoList, title string) error {
	if err := r.db.WithContext(ctx).Model(list).Update("title", title).Error; err != nil {
		return fmt.Errorf("update list title: %w", err)
	}
	return nil
}

func (r *ListRepository) SetState(ctx context.Context, list *model.TodoList, state model.LifecycleState) error {
	if err := r.db.WithContext(ctx).Model(list).Update("state", state).Error; err != nil {
		return fmt.Errorf("set list state: %w", err)
	}
	return nil
}

func (r *ListRepository) Delete(ctx context.Context, userID, listID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, listID).
		Delete(&model.TodoList{}).Error; err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}
