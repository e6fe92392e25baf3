package services

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrSlugExists  = errors.New("slug already exists")
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrRegistrationDisabled = errors.New("registration is disabled")

	// ErrLineItemUnavailable is returned under the strict stock policy when a
	// line item's product cannot be decremented.
	ErrLineItemUnavailable = errors.New("line item unavailable")

	ErrPaymentsDisabled = errors.New("payments are not configured")
)

// LineItemError names the product behind ErrLineItemUnavailable.
type LineItemError struct {
	ProductID string
	Err       error
}

func (e *LineItemError) Error() string {
	return "product " + e.ProductID + ": " + e.Err.Error()
}

func (e *LineItemError) Unwrap() error {
	return e.Err
}
