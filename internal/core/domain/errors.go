package domain

import "errors"

var (
	// ErrInvalidAmount is returned for non positive deposits and for amounts
	// that are not unsigned integers of the native unit.
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	// ErrInvalidAccount ...
	ErrInvalidAccount = errors.New("account id must not be empty")
	// ErrInvalidOrderId ...
	ErrInvalidOrderId = errors.New("order id must not be empty")
	// ErrInsufficientBalance is returned when a withdrawal, order creation or
	// order execution exceeds the funds available to the account.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrOrderNotFound ...
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotPending is returned when trying to move an order that already
	// left the Pending status.
	ErrOrderNotPending = errors.New("order is not pending")
	// ErrOrderAmountMismatch is returned when the execution amount differs
	// from the one the order was created with.
	ErrOrderAmountMismatch = errors.New("amount mismatch")
	// ErrUnauthorized is returned when the caller lacks the role required by
	// the operation.
	ErrUnauthorized = errors.New("caller is not authorized to perform this action")
	// ErrTransferNotFound ...
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrInvalidSolver ...
	ErrInvalidSolver = errors.New("solver id must not be empty")
)

// IsInvalidInput returns whether the given error is a rejection caused by
// malformed arguments rather than by the state of the ledger.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidOrderId) ||
		errors.Is(err, ErrInvalidSolver)
}
