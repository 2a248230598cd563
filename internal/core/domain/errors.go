package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalid          = errors.New("token invalid")
	ErrDuplicateTrackingCode = errors.New("tracking code already exists")
)

// ValidationError carries every offending field, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldError builds a ValidationError for a single field
func FieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ConflictError marks a duplicate in-flight application or an exhausted
// tracking-code retry. Client-facing, retryable by resubmission.
type ConflictError struct {
	Message string
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError marks an unknown tracking code or officer reference.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError marks an illegal status change. The message
// enumerates the allowed next states.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Allowed: AllowedNext(from)}
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition from terminal status %q", e.From)
	}
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot transition from %q to %q; allowed: %s",
		e.From, e.To, strings.Join(allowed, ", "))
}

// IsClientError reports whether err belongs to the client-facing taxonomy
// (validation, conflict, not-found, invalid transition). Everything else is
// treated as an infrastructure failure at the API boundary.
func IsClientError(err error) bool {
	var ve *ValidationError
	var ce *ConflictError
	var ne *NotFoundError
	var te *InvalidTransitionError
	return errors.As(err, &ve) || errors.As(err, &ce) ||
		errors.As(err, &ne) || errors.As(err, &te)
}
