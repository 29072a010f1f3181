package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"checklists/internal/model"
)

// TaskFilter narrows a task listing. Empty fields are not applied.
type TaskFilter struct {
	UserID string
	ListID string
	States []model.LifecycleState
}

// TaskRepository handles CRUD for tasks. Listings come back sorted by
// (sort_order, created_at) so equal or legacy orders stay stable.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindOwned returns gorm.ErrRecordNotFound when the task is missing or owned
// by someone else.
func (r *TaskRepository) FindOwned(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	q := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.ListID != "" {
		q = q.Where("list_id = ?", filter.ListID)
	}
	if len(filter.States) > 0 {
		q = q.Where("state IN ?", filter.States)
	}
	if err := q.Order("sort_order ASC, created_at ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// MaxActiveOrder returns the highest order among active tasks of a list, and
// false when the list has none.
func (r *TaskRepository) MaxActiveOrder(ctx context.Context, userID, listID string) (int, bool, error) {
	var max sql.NullInt64
	row := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND list_id = ? AND state = ?", userID, listID, model.StateActive).
		Select("MAX(sort_order)").
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, false, fmt.Errorf("max task order: %w", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

// Update writes the given columns of one task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(task).Updates(fields).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) SetOrder(ctx context.Context, task *model.Task, order int) error {
	if err := r.db.WithContext(ctx).Model(task).Update("sort_order", order).Error; err != nil {
		return fmt.Errorf("set task order: %w", err)
	}
	return nil
}

func (r *TaskRepository) SetState(ctx context.Context, task *model.Task, state model.LifecycleState) error {
	if err := r.db.WithContext(ctx).Model(task).Update("state", state).Error; err != nil {
		return fmt.Errorf("set task state: %w", err)
	}
	return nil
}

// SetStateByList moves every task of a list that is currently in one of
// from to state, and returns how many rows changed.
func (r *TaskRepository) SetStateByList(ctx context.Context, userID, listID string, from []model.LifecycleState, state model.LifecycleState) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND list_id = ? AND state IN ?", userID, listID, from).
		Update("state", state)
	if res.Error != nil {
		return 0, fmt.Errorf("set list task states: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteByList removes every task of a list regardless of state.
func (r *TaskRepository) DeleteByList(ctx context.Context, userID, listID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND list_id = ?", userID, listID).Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete list tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}
