package booking

import (
	"errors"
	"fmt"
)

var (
	ErrQuoteNotFound    = errors.New("quote session not found or expired")
	ErrServiceNotFound  = errors.New("service not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAddressRequired  = errors.New("a complete service address is required")
)

// CheckoutError reports a checkout that stopped part way. Items submitted
// before the failure have been removed from the cart.
type CheckoutError struct {
	Submitted int
	Err       error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout stopped after %d item(s): %v", e.Submitted, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}
