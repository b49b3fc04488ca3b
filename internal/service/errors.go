package service

import "errors"

// Business-rule violations surfaced to the HTTP layer. Handlers map these to
// status codes; everything else is a 500.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidState        = errors.New("invalid state")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrEmailTaken          = errors.New("email already registered")
	ErrBookingConflict     = errors.New("conflicting booking")
	ErrAlreadyPaid         = errors.New("session already paid")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
)
