package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountRepository is the abstraction for any kind of database intended to
// persist the ledger balances.
type AccountRepository interface {
	// GetAccount returns the account with the given id, or nil if it has never
	// been credited.
	GetAccount(ctx context.Context, id string) (*Account, error)
	// GetBalance returns the balance of the given account, zero if not found.
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
	// UpdateAccount allows to commit multiple changes to the same account in
	// a transactional way. A zero balance account is passed to updateFn if
	// not yet existing.
	UpdateAccount(
		ctx context.Context,
		id string,
		updateFn func(a *Account) (*Account, error),
	) error
	// CountAccounts returns the number of accounts of the ledger.
	CountAccounts(ctx context.Context) (int, error)
}
