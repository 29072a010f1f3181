package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store struct {
	db    *gorm.DB
	Users *UserRepository
	Lists *ListRepository
	Tasks *TaskRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		Users: NewUserRepository(db),
		Lists: NewListRepository(db),
		Tasks: NewTaskRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single database
// transaction. Every write fn makes commits together or not at all.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
