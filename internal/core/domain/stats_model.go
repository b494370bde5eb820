package domain

import "github.com/shopspring/decimal"

// LedgerStats holds the reporting counters of the ledger.
type LedgerStats struct {
	// TotalDeposits grows with deposits and shrinks, saturating at zero, with
	// withdrawals. It is not a conserved quantity.
	TotalDeposits decimal.Decimal
}

// RecordDeposit ...
func (s *LedgerStats) RecordDeposit(amount decimal.Decimal) {
	s.TotalDeposits = s.TotalDeposits.Add(amount)
}

// RecordWithdrawal ...
func (s *LedgerStats) RecordWithdrawal(amount decimal.Decimal) {
	if s.TotalDeposits.LessThan(amount) {
		s.TotalDeposits = decimal.Zero
		return
	}
	s.TotalDeposits = s.TotalDeposits.Sub(amount)
}
