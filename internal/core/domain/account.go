package domain

import "github.com/shopspring/decimal"

// Account holds the custodial balance of a ledger account.
type Account struct {
	Id      string
	Balance decimal.Decimal
}

// NewAccount returns an account with zero balance.
func NewAccount(id string) (*Account, error) {
	if id == "" {
		return nil, ErrInvalidAccount
	}
	return &Account{Id: id, Balance: decimal.Zero}, nil
}

// HasFunds returns whether the balance covers the given amount.
func (a *Account) HasFunds(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Credit adds the given positive amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit subtracts the given amount from the balance. The balance is left
// untouched if it does not cover the amount.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !a.HasFunds(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// TokenBalance is the balance of an account for a specific token.
type TokenBalance struct {
	Token  string
	Amount decimal.Decimal
}
