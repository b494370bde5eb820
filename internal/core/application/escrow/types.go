package escrow

import (
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// TransferNotifier is notified of every transfer request committed by the
// service.
type TransferNotifier interface {
	NotifyTransfer(transfer domain.Transfer)
}

// Stats is a snapshot of the ledger counters.
type Stats struct {
	TotalDeposits    decimal.Decimal
	NumOfAccounts    int
	OrdersByStatus   map[domain.OrderStatus]int
	PendingTransfers int
}

// event holds what is published once a mutation is committed.
type event struct {
	domain.Event
	transfer *domain.Transfer
}
