package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFoundOrForbidden deliberately conflates "does not exist" with
	// "not yours" so non-owners cannot probe for order existence.
	ErrNotFoundOrForbidden     = errors.New("order not found or not accessible")
	ErrCustomerProfileMissing  = errors.New("customer profile does not exist for this account")
	ErrCartEmpty               = errors.New("cart has no selected items")
	ErrCartLineNotFound        = errors.New("product not found in cart")
	ErrProductNotFound         = errors.New("product not found")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
)

// InsufficientStockError names the offending product and what is left so the
// client can adjust the requested quantity.
type InsufficientStockError struct {
	ProductID int
	Product   string
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q only has %d left in stock", e.Product, e.Remaining)
}

// ValidationError marks missing or malformed request input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
