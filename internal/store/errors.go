package store

import "fmt"

// ValidationError is a client-facing precondition failure. Field is
// empty for cart/stock level failures that are not tied to one input.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing or not-owned resource. Ownership
// failures use it too, so a non-owner cannot probe for existence.
type NotFoundError struct {
	Resource string `json:"resource"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func notFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}
