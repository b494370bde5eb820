package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NativeToken identifies the native asset, the only one the ledger handles
// for now.
const NativeToken = ""

// ParseAmount returns the amount represented by the given string in base
// units. Only unsigned integers are accepted.
func ParseAmount(str string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(str))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount makes sure the amount is a non negative integer.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return ErrInvalidAmount
	}
	return nil
}

// FormatAmount returns the canonical string representation of an amount.
func FormatAmount(amount decimal.Decimal) string {
	return amount.Truncate(0).String()
}
