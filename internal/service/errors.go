package service

import "errors"

// Errors surfaced to the API layer, which maps them onto HTTP statuses
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrForbidden          = errors.New("forbidden")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotEligible        = errors.New("no delivered order contains this product")
	ErrReturnWindowClosed = errors.New("return window has closed")
	ErrPaymentState       = errors.New("order is not payable in its current state")
)
