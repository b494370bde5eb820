package domain

import "github.com/shopspring/decimal"

// EventType tells which mutation an event reports.
type EventType string

const (
	EventDeposit        EventType = "deposit"
	EventWithdrawal     EventType = "withdrawal"
	EventOrderCreated   EventType = "order_created"
	EventOrderExecuted  EventType = "order_executed"
	EventOrderCancelled EventType = "order_cancelled"
	EventOrderFailed    EventType = "order_failed"
)

// EventTypes returns all the known event types.
func EventTypes() []EventType {
	return []EventType{
		EventDeposit, EventWithdrawal, EventOrderCreated,
		EventOrderExecuted, EventOrderCancelled, EventOrderFailed,
	}
}

// Event describes a committed mutation of the ledger or the order book.
type Event struct {
	Type      EventType       `json:"type"`
	Account   string          `json:"account,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	OrderId   string          `json:"order_id,omitempty"`
	Taker     string          `json:"taker,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Timestamp int64           `json:"timestamp"`
}
