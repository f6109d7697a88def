package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrNotStudent       = errors.New("account is not a student")
	ErrNotTeacher       = errors.New("account is not a teacher")
	ErrConcurrentUpdate = errors.New("account was modified concurrently")
	ErrInvalidAmount    = errors.New("amount must be a positive integer")
	ErrUsernameTaken    = errors.New("username is already claimed")

	// Catalog errors
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrCatalogCorrupt  = errors.New("catalog record is malformed")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidPrice    = errors.New("price must be a non-negative integer")

	// Purchase errors
	ErrPriceChanged      = errors.New("item price has changed")
	ErrItemRemoved       = errors.New("item is no longer available")
	ErrInsufficientFunds = errors.New("insufficient balance")
)
