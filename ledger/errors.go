package ledger

import "errors"

// Domain errors returned by Account and Ledger operations. All of them are
// recoverable business conditions; callers match them with errors.Is and decide
// how to surface them.
var (
	// ErrInvalidAmount is returned for a non-positive amount, or a negative
	// initial balance at account creation.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal or transfer exceeds
	// the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountClosed is returned for any mutation attempted on an inactive
	// account.
	ErrAccountClosed = errors.New("account is closed")

	// ErrNotFound is returned when an account number cannot be resolved.
	ErrNotFound = errors.New("account not found")

	// ErrSameAccount is returned when a transfer names the same account as
	// source and destination.
	ErrSameAccount = errors.New("source and destination accounts are the same")

	// ErrEmptyHolder is returned when an account is created without a holder
	// name.
	ErrEmptyHolder = errors.New("account holder name is required")
)
