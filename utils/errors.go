package utils

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "NotFound"
	KindUnauthorized ErrorKind = "Unauthorized"
	KindForbidden    ErrorKind = "Forbidden"
	KindConflict     ErrorKind = "Conflict"
	KindInvalidState ErrorKind = "InvalidState"
	KindValidation   ErrorKind = "ValidationError"
)

// AppError is the typed failure returned by every service operation.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches on kind and message so sentinel values survive wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func ValidationError(message string) *AppError {
	return NewError(KindValidation, message)
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

var defaultStatus = map[ErrorKind]int{
	KindNotFound:     http.StatusNotFound,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindConflict:     http.StatusConflict,
	KindInvalidState: http.StatusConflict,
	KindValidation:   http.StatusBadRequest,
}

// HTTPStatus maps err to a status code. overrides win over the default table.
func HTTPStatus(err error, overrides map[ErrorKind]int) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if code, ok := overrides[kind]; ok {
		return code
	}
	if code, ok := defaultStatus[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}
