package domain

import "errors"

const (
	MsgCustomerRequired   = "customerId is required"
	MsgItemsRequired      = "order must contain at least one item"
	MsgItemFieldsRequired = "item missing required fields"
	MsgQuantityPositive   = "quantity must be positive"
	MsgPriceNegative      = "price cannot be negative"
	MsgTotalTooLarge      = "order total is too large"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError reports client supplied order data that cannot be accepted.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }
