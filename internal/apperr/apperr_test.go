package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := NotFound(CodeTodoNotFound, "todo not found")

	t.Run("matches kind sentinel", func(t *testing.T) {
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrNotInTrash))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("restore: %w", err)
		assert.True(t, errors.Is(wrapped, ErrNotFound))
		assert.Equal(t, KindNotFound, KindOf(wrapped))
		assert.Equal(t, CodeTodoNotFound, CodeOf(wrapped))
	})

	t.Run("code narrows match", func(t *testing.T) {
		assert.True(t, errors.Is(err, &Error{Kind: KindNotFound, Code: CodeTodoNotFound}))
		assert.False(t, errors.Is(err, &Error{Kind: KindNotFound, Code: CodeListNotFound}))
	})
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "", CodeOf(err))
	assert.Equal(t, "internal server error", PublicMessage(err))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused at 10.0.0.3")
	err := Internal("could not load tasks", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "could not load tasks", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindValidation:           "validation",
		KindNotFound:             "not_found",
		KindNotInTrash:           "not_in_trash",
		KindAlreadyTrashed:       "already_trashed",
		KindIncompleteReorderSet: "incomplete_reorder_set",
		KindConflict:             "conflict",
		KindUnauthorized:         "unauthorized",
		KindInternal:             "internal",
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.String())
	}
}
