package repository

import "errors"

// ErrNotFound indicates a missing row.
var ErrNotFound = errors.New("repository: not found")

// ErrInsufficientBalance indicates a wallet debit larger than the balance.
var ErrInsufficientBalance = errors.New("repository: insufficient balance")
