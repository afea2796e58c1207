package domain

import "fmt"

// Domain errors
var (
	ErrInsufficientStock = &DomainError{Message: "insufficient stock available"}
	ErrProductNotFound   = &DomainError{Message: "product not found"}
)

// DomainError represents a domain-level error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError reports a violated precondition on operation input,
// carrying the name of the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
