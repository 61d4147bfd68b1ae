package orders

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMissingUPIID         = errors.New("upi id is required for upi payments")
	ErrMissingCardDetails   = errors.New("card details are required for card payments")
	ErrMissingUser          = errors.New("user id is required")
	ErrNotFound             = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
