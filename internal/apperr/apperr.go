// Package apperr defines the typed error taxonomy returned by the list and
// task services. Every failure carries a Kind, which the transport layers map
// to a status deterministically, and a stable Code clients can switch on.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary translation.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindNotInTrash
	KindAlreadyTrashed
	KindIncompleteReorderSet
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNotInTrash:
		return "not_in_trash"
	case KindAlreadyTrashed:
		return "already_trashed"
	case KindIncompleteReorderSet:
		return "incomplete_reorder_set"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Stable error codes.
const (
	CodeTodoMissingList          = "TodoMissingList"
	CodeTodoMissingTitle         = "TodoMissingTitle"
	CodeTodoNotFound             = "TodoNotFound"
	CodeTodoNotInTrash           = "TodoNotInTrash"
	CodeListNotFound             = "ListNotFound"
	CodeListMissingTitle         = "ListMissingTitle"
	CodeListNotInTrash           = "ListNotInTrash"
	CodeListTrashed              = "ListTrashed"
	CodeTitleTooLong             = "TitleTooLong"
	CodeInvalidPriority          = "InvalidPriority"
	CodeIncompleteReorderSet     = "IncompleteReorderSet"
	CodeReorderUnknownTodo       = "ReorderUnknownTodo"
	CodeReorderDuplicateTodo     = "ReorderDuplicateTodo"
	CodeUserMissingEmailPassword = "UserMissingEmailPassword"
	CodeUserEmailExists          = "UserEmailExists"
	CodeUserInvalidCredentials   = "UserInvalidCredentials"
	CodeInvalidAccessToken       = "InvalidAccessToken"
	CodeInvalidRequestBody       = "InvalidRequestBody"
)

// Error is a tagged service error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind, and by Code when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Sentinels for errors.Is checks by kind.
var (
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrNotInTrash           = &Error{Kind: KindNotInTrash, Message: "not in trash"}
	ErrAlreadyTrashed       = &Error{Kind: KindAlreadyTrashed, Message: "already in trash"}
	ErrIncompleteReorderSet = &Error{Kind: KindIncompleteReorderSet, Message: "reorder set does not match active tasks"}
	ErrConflict             = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
)

func Validation(code, message string) error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func NotInTrash(code, message string) error {
	return &Error{Kind: KindNotInTrash, Code: code, Message: message}
}

func IncompleteReorderSet(code, message string) error {
	return &Error{Kind: KindIncompleteReorderSet, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// Internal wraps an unexpected failure. The message is safe to show; the
// cause is kept for logs only.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the Code of the first *Error in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// PublicMessage returns a message suitable for clients. Internal errors never
// expose their cause.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	if e.Kind == KindInternal {
		if e.Message != "" {
			return e.Message
		}
		return "internal server error"
	}
	return e.Message
}
