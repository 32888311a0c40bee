package apperr

import "fmt"

// Kind classifies an error so transport layers can pick a status code
// without inspecting message text.
type Kind int

const (
	// Validation covers missing, mistyped, or out-of-range input.
	Validation Kind = iota
	// NotFound covers lookups by an unknown id.
	NotFound
	// Conflict covers business-rule violations such as deleting a medicine
	// with sales history or selling more stock than is available.
	Conflict
	// Store covers underlying persistence failures.
	Store
)

// Error wraps an underlying error with a kind and a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the provided kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and safe message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
