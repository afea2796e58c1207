package errors

import (
	"fmt"
	"net/http"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "ValidationError", "ProductNotFound")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, stock figures, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError", "InsufficientStock":
		return http.StatusBadRequest
	case "ProductNotFound", "ResourceNotFound":
		return http.StatusNotFound
	case "BrokerConnectionError", "ServiceUnavailable":
		return http.StatusServiceUnavailable
	case "SerializationError", "PersistenceError", "InternalError":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError("InvalidRequest", message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError("ValidationError", message, fmt.Sprintf("Field: %s", field))
}

func NewProductNotFound(productID string) *StandardError {
	return NewStandardError("ProductNotFound", "product not found", fmt.Sprintf("Product ID: %s", productID))
}

func NewInsufficientStock(available, requested int) *StandardError {
	return NewStandardError("InsufficientStock", "insufficient stock available",
		fmt.Sprintf("Available: %d, Requested: %d", available, requested))
}

func NewSerializationError(err error) *StandardError {
	return NewStandardError("SerializationError", "failed to serialize data", err.Error())
}

func NewPersistenceError(operation string, err error) *StandardError {
	return NewStandardError("PersistenceError", fmt.Sprintf("persistence operation failed: %s", operation), err.Error())
}

func NewBrokerConnectionError(err error) *StandardError {
	return NewStandardError("BrokerConnectionError", "failed to connect to event broker", err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("InternalError", message, details)
}
