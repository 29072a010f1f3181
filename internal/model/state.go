package model

// LifecycleState is the persisted soft-delete state of a list or task.
// Purged entities are not represented: purge is a hard delete.
type LifecycleState string

const (
	StateActive  LifecycleState = "active"
	StateTrashed LifecycleState = "trashed"
)

func (s LifecycleState) IsValid() bool {
	return s == StateActive || s == StateTrashed
}

// Priority is an optional importance marker on a task.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns every accepted priority value, including none.
func ValidPriorities() []Priority {
	return []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}
