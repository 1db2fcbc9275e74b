package app

import (
	"errors"
	"sort"
	"strings"

	"coursehub/pkg/store"
)

// Kind classifies application failures for the transport layer.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindProbe      Kind = "probe"
	KindStore      Kind = "store"
)

// Error is the typed failure returned by every App operation.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps offending input fields to a reason (validation only).
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err; untyped errors are store failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

func validationError(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func probeError(err error) *Error {
	return &Error{Kind: KindProbe, Message: "could not read media duration", Err: err}
}

func storeError(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// Messages shared between guards.
const (
	msgCourseNotFound   = "course not found"
	msgUserNotFound     = "user not found"
	msgNotCreator       = "you are not the creator of the course"
	msgAlreadyPublished = "course is already published"
)

// translate maps store sentinels onto application errors. Errors that are
// already typed pass through.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return notFound(msgUserNotFound)
	case errors.Is(err, store.ErrNotFound):
		return notFound(msgCourseNotFound)
	case errors.Is(err, store.ErrNotOwner):
		return forbidden(msgNotCreator)
	case errors.Is(err, store.ErrAlreadyPublished):
		return conflict(msgAlreadyPublished)
	case errors.Is(err, store.ErrDuplicate):
		return conflict("already exists")
	case errors.Is(err, store.ErrConcurrentUpdate):
		return &Error{Kind: KindConflict, Message: "concurrent update, please retry", Err: err}
	default:
		return storeError(op, err)
	}
}
