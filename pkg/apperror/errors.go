package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its message
type Kind string

const (
	KindValidation             Kind = "validation"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindInvalidQuantity        Kind = "invalid_quantity"
	KindItemNotFound           Kind = "item_not_found"
	KindNotFound               Kind = "not_found"
	KindEmptySale              Kind = "empty_sale"
	KindPoolExhausted          Kind = "pool_exhausted"
	KindStorage                Kind = "storage_failure"
	KindUnauthorized           Kind = "unauthorized"
	KindBadRequest             Kind = "bad_request"
	KindInternal               Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Kind    Kind         `json:"kind"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`

	// Requested and Available are set for insufficient stock errors.
	Requested int `json:"requested,omitempty"`
	Available int `json:"available,omitempty"`

	Err error `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind, so errors.Is(err, ErrInsufficientStock)
// holds for every insufficient stock error regardless of its details.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// Common errors
var (
	ErrValidation             = &AppError{Kind: KindValidation, Code: http.StatusUnprocessableEntity, Message: "Validation failed"}
	ErrInvalidStateTransition = &AppError{Kind: KindInvalidStateTransition, Code: http.StatusConflict, Message: "Invalid state transition"}
	ErrInsufficientStock      = &AppError{Kind: KindInsufficientStock, Code: http.StatusConflict, Message: "Insufficient stock"}
	ErrInvalidQuantity        = &AppError{Kind: KindInvalidQuantity, Code: http.StatusUnprocessableEntity, Message: "Invalid quantity"}
	ErrItemNotFound           = &AppError{Kind: KindItemNotFound, Code: http.StatusNotFound, Message: "Item not found"}
	ErrNotFound               = &AppError{Kind: KindNotFound, Code: http.StatusNotFound, Message: "Resource not found"}
	ErrEmptySale              = &AppError{Kind: KindEmptySale, Code: http.StatusUnprocessableEntity, Message: "Cannot complete a sale without items"}
	ErrPoolExhausted          = &AppError{Kind: KindPoolExhausted, Code: http.StatusServiceUnavailable, Message: "No database connection available"}
	ErrStorage                = &AppError{Kind: KindStorage, Code: http.StatusInternalServerError, Message: "Storage failure"}
	ErrUnauthorized           = &AppError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrInvalidCredentials     = &AppError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: "Invalid username or password"}
	ErrBadRequest             = &AppError{Kind: KindBadRequest, Code: http.StatusBadRequest, Message: "Bad request"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is shorthand for a validation error on a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewInvalidStateTransitionError reports an operation the current state does not allow
func NewInvalidStateTransitionError(operation, state string) *AppError {
	return &AppError{
		Kind:    KindInvalidStateTransition,
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("cannot %s an item in state %s", operation, state),
	}
}

// NewInsufficientStockError carries the requested and available amounts for display
func NewInsufficientStockError(code string, requested, available int) *AppError {
	return &AppError{
		Kind:      KindInsufficientStock,
		Code:      http.StatusConflict,
		Message:   fmt.Sprintf("insufficient stock for %s: requested %d, available %d", code, requested, available),
		Requested: requested,
		Available: available,
	}
}

// NewInvalidQuantityError creates an invalid quantity error
func NewInvalidQuantityError(message string) *AppError {
	return &AppError{
		Kind:    KindInvalidQuantity,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
	}
}

// NewItemNotFoundError creates an item not found error for the given code
func NewItemNotFoundError(code string) *AppError {
	return &AppError{
		Kind:    KindItemNotFound,
		Code:    http.StatusNotFound,
		Message: "Item " + code + " not found",
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewStorageError wraps an underlying persistence error
func NewStorageError(op string, err error) *AppError {
	return &AppError{
		Kind:    KindStorage,
		Code:    http.StatusInternalServerError,
		Message: op + " failed",
		Err:     err,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Kind:    KindBadRequest,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// Storage wraps err as a storage failure unless it already is an AppError.
// Domain errors raised inside a transaction keep their kind.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	return NewStorageError(op, err)
}
