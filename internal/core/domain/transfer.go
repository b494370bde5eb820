package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferKind tells what caused a transfer to be requested.
type TransferKind string

const (
	TransferKindWithdrawal     TransferKind = "withdrawal"
	TransferKindOrderExecution TransferKind = "order_execution"
)

// TransferStatus represents the delivery status of a transfer request.
type TransferStatus int

const (
	TransferStatusRequested TransferStatus = iota
	TransferStatusDispatched
)

func (s TransferStatus) String() string {
	if s == TransferStatusDispatched {
		return "dispatched"
	}
	return "requested"
}

// Transfer is an outgoing payout of the native asset, persisted together
// with the balance change that caused it and later handed to the transfer
// sink.
type Transfer struct {
	Id           string
	Kind         TransferKind
	Recipient    string
	Amount       decimal.Decimal
	Token        string
	OrderId      string
	Status       TransferStatus
	RequestedAt  int64
	DispatchedAt int64
	Attempts     int
	LastError    string
}

// NewWithdrawalTransfer returns the payout request for a withdrawal.
func NewWithdrawalTransfer(
	recipient string, amount decimal.Decimal, at int64,
) *Transfer {
	return newTransfer(TransferKindWithdrawal, recipient, "", amount, at)
}

// NewOrderTransfer returns the payout request to the taker of an executed
// order.
func NewOrderTransfer(order Order) *Transfer {
	return newTransfer(
		TransferKindOrderExecution, order.Taker, order.Id, order.Amount,
		order.ExecutedAt,
	)
}

func newTransfer(
	kind TransferKind, recipient, orderId string,
	amount decimal.Decimal, at int64,
) *Transfer {
	return &Transfer{
		Id:          uuid.New().String(),
		Kind:        kind,
		Recipient:   recipient,
		Amount:      amount,
		Token:       NativeToken,
		OrderId:     orderId,
		Status:      TransferStatusRequested,
		RequestedAt: at,
	}
}

func (t *Transfer) IsDispatched() bool {
	return t.Status == TransferStatusDispatched
}

// Dispatch marks the transfer as delivered to the sink. It's a no-op if
// already dispatched.
func (t *Transfer) Dispatch(at int64) {
	if t.IsDispatched() {
		return
	}
	t.Attempts++
	t.LastError = ""
	t.DispatchedAt = at
	t.Status = TransferStatusDispatched
}

// RecordFailedAttempt keeps track of a failed delivery.
func (t *Transfer) RecordFailedAttempt(err error) {
	if t.IsDispatched() {
		return
	}
	t.Attempts++
	if err != nil {
		t.LastError = err.Error()
	}
}
