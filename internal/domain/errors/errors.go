package errors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrOrderNotPayable = errors.New("order not payable")
	ErrStaleTransition = errors.New("stale transition")
)
