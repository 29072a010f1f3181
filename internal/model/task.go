package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task represents a single item in a list.
type Task struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"index;size:36;not null" json:"ownerId"`
	ListID    string         `gorm:"index;size:36;not null" json:"listId"`
	Title     string         `gorm:"not null" json:"title"`
	Completed bool           `gorm:"not null;default:false" json:"completed"`
	Order     int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	State     LifecycleState `gorm:"index;size:16;not null" json:"state"`
	DueDate   *time.Time     `json:"dueDate,omitempty"`
	Priority  Priority       `gorm:"size:16" json:"priority"`
	Notes     string         `json:"notes,omitempty"`
	Labels    Labels         `gorm:"type:text" json:"labels"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.State == "" {
		t.State = StateActive
	}
	return nil
}

func (t Task) IsTrashed() bool {
	return t.State == StateTrashed
}

// Labels is an unordered set of tags stored as a JSON array.
type Labels []string

// NewLabels trims, drops empties, deduplicates and sorts raw label input.
func NewLabels(raw []string) Labels {
	seen := make(map[string]struct{}, len(raw))
	out := make(Labels, 0, len(raw))
	for _, label := range raw {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether label is in the set.
func (l Labels) Contains(label string) bool {
	for _, v := range l {
		if v == label {
			return true
		}
	}
	return false
}

func (l Labels) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *Labels) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = Labels{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("scan labels: unsupported type %T", src)
	}
	if len(data) == 0 {
		*l = Labels{}
		return nil
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scan labels: %w", err)
	}
	*l = NewLabels(raw)
	return nil
}
