package service

import (
	"errors"
	"fmt"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/store"
)

// Sentinel errors returned by the services. Handlers map these to
// user-visible failures; anything else is a storage failure whose detail
// stays in the logs.
var (
	// ErrMemoNotFound indicates that the memo does not exist.
	ErrMemoNotFound = errors.New("memo not found")

	// ErrTagNotFound indicates that the tag does not exist.
	ErrTagNotFound = errors.New("tag not found")

	// ErrTagNameTaken indicates a tag name conflict. Surfaced to users as
	// a field-level error on "name".
	ErrTagNameTaken = errors.New("tag name is already in use")
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_memo").
	Operation string
	// Message is a human-readable description of the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with operation context. Known sentinel and
// validation errors pass through unchanged so callers can match on them;
// store-level not-found errors are mapped to their service-level
// counterparts.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrMemoNotFound), errors.Is(err, store.ErrMemoNotFound):
		return ErrMemoNotFound
	case errors.Is(err, ErrTagNotFound), errors.Is(err, store.ErrTagNotFound):
		return ErrTagNotFound
	case errors.Is(err, ErrTagNameTaken), errors.Is(err, store.ErrTagNameExists):
		return ErrTagNameTaken
	}
	if _, ok := domain.AsValidationError(err); ok {
		return err
	}

	return &ServiceError{Operation: operation, Message: message, Err: err}
}
