package services

import "errors"

// Validation failures surfaced by the ledger services. All of them are
// recoverable: the enclosing transaction rolls back, nothing is
// recorded, and the caller corrects its input. Handlers map them to
// HTTP statuses with errors.Is.
var (
	ErrInvalidAmount       = errors.New("points must be a positive integer")
	ErrInvalidAdjustment   = errors.New("adjustment points cannot be zero")
	ErrInsufficientBalance = errors.New("insufficient points balance")
	ErrSameProvider        = errors.New("cannot exchange points within the same provider")
	ErrProviderInactive    = errors.New("provider is not active")
	ErrZeroResultExchange  = errors.New("exchange would result in zero points")
	ErrNoLinkedAccount     = errors.New("no linked account found")
	ErrLinkConflict        = errors.New("vendor email already linked to a different user for this provider")
)
