package models

import "errors"

// ErrValidation marks input that failed a business rule (HTTP 400).
var ErrValidation = errors.New("validation failed")

// ErrNotFound marks a referenced record that does not exist (HTTP 404).
var ErrNotFound = errors.New("not found")

// Error carries a user facing message together with its category.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid builds a validation error with a localized message.
func Invalid(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// NotFound builds a not-found error with a localized message.
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}
