package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoList is a named checklist owned by exactly one user.
type TodoList struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"index;size:36;not null" json:"ownerId"`
	Title     string         `gorm:"not null" json:"title"`
	State     LifecycleState `gorm:"index;size:16;not null" json:"state"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Tasks     []Task         `gorm:"foreignKey:ListID" json:"-"`
}

func (l *TodoList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.State == "" {
		l.State = StateActive
	}
	return nil
}

func (l TodoList) IsTrashed() bool {
	return l.State == StateTrashed
}

// ListStats summarises the active tasks of a list.
type ListStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	UpcomingDue int `json:"upcomingDue"`
}

// ListWithStats pairs a list with its live stats.
type ListWithStats struct {
	TodoList
	Stats ListStats `json:"stats"`
}
