// Package apperror carries the failure kinds services report to handlers.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindValidation
	KindConflict
	KindUnsupportedMediaType
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnsupportedMediaType:
		return "unsupported_media_type"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error

	// exposeCause lets Detail include Err for internal failures.
	exposeCause bool
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

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func BadRequest(format string, args ...interface{}) *Error {
	return newf(KindBadRequest, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

func UnsupportedMediaType(format string, args ...interface{}) *Error {
	return newf(KindUnsupportedMediaType, format, args...)
}

// Internal keeps the cause reachable through errors.Is/As. Clients only see
// message.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Processing is an internal failure caused by the uploaded content, such as a
// corrupt PDF. The cause is part of the client-facing detail.
func Processing(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err, exposeCause: true}
}

// KindOf returns KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Detail is the client-facing message for err.
func Detail(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "Internal server error"
	}
	if appErr.Kind == KindInternal && !appErr.exposeCause {
		return appErr.Message
	}
	return appErr.Error()
}
