package entity

import (
	"errors"
	"fmt"
)

// Repository level sentinels. Repositories wrap them with %w.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidToken is the only error token verification ever returns.
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorKind classifies failures for the HTTP boundary.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindValidation
	KindDuplicate
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// AppError carries a user-safe message. Err is logged, never returned to clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewDuplicateError(msg string) *AppError {
	return &AppError{Kind: KindDuplicate, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewUnauthenticatedError(msg string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

// NewUpstreamError wraps a failed database, storage, mail or provider call.
func NewUpstreamError(msg string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindUpstream for anything that is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}
