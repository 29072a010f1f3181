package service

import (
	"fmt"

	"checklists/internal/apperr"
	"checklists/internal/model"
)

// Event is a requested lifecycle transition.
type Event string

const (
	EventSoftDelete Event = "soft-delete"
	EventRestore    Event = "restore"
	EventPurge      Event = "purge"
)

// Entity names the kind of record a transition applies to.
type Entity string

const (
	EntityList Entity = "list"
	EntityTask Entity = "task"
)

// Outcome tells the caller what to persist for an accepted event.
type Outcome int

const (
	// OutcomeNoop: nothing to write. Soft-deleting something already in the
	// trash lands here.
	OutcomeNoop Outcome = iota
	// OutcomeTransition: write the returned state.
	OutcomeTransition
	// OutcomeDelete: hard delete the record.
	OutcomeDelete
)

// Decide evaluates ev against the current state.
//
//	active  --soft-delete--> trashed
//	trashed --soft-delete--> trashed (no-op)
//	trashed --restore------> active
//	trashed --purge--------> deleted
//	active  --restore|purge: NotInTrash
func Decide(entity Entity, current model.LifecycleState, ev Event) (Outcome, model.LifecycleState, error) {
	if !current.IsValid() {
		return OutcomeNoop, current, apperr.Internal("unknown lifecycle state", fmt.Errorf("%s in state %q", entity, current))
	}

	switch ev {
	case EventSoftDelete:
		if current == model.StateTrashed {
			return OutcomeNoop, current, nil
		}
		return OutcomeTransition, model.StateTrashed, nil
	case EventRestore:
		if current != model.StateTrashed {
			return OutcomeNoop, current, notInTrash(entity)
		}
		return OutcomeTransition, model.StateActive, nil
	case EventPurge:
		if current != model.StateTrashed {
			return OutcomeNoop, current, notInTrash(entity)
		}
		return OutcomeDelete, current, nil
	default:
		return OutcomeNoop, current, apperr.Internal("unknown lifecycle event", fmt.Errorf("event %q", ev))
	}
}

func notInTrash(entity Entity) error {
	if entity == EntityList {
		return apperr.NotInTrash(apperr.CodeListNotInTrash, "checklist is not in trash")
	}
	return apperr.NotInTrash(apperr.CodeTodoNotInTrash, "todo is not in trash")
}
