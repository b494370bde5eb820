package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the different statuses that an order can assume.
type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusExecuted
	OrderStatusCancelled
	OrderStatusFailed
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusPending:   "pending",
	OrderStatusExecuted:  "executed",
	OrderStatusCancelled: "cancelled",
	OrderStatusFailed:    "failed",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseOrderStatus returns the status with the given name, case insensitive.
func ParseOrderStatus(str string) (OrderStatus, error) {
	for status, name := range orderStatusNames {
		if strings.EqualFold(name, strings.TrimSpace(str)) {
			return status, nil
		}
	}
	return -1, fmt.Errorf("unknown order status %q", str)
}

// OrderStatuses returns all known statuses, in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusExecuted,
		OrderStatusCancelled,
		OrderStatusFailed,
	}
}

// Order is the data structure representing an escrow order entity.
type Order struct {
	Id         string
	Maker      string
	Taker      string
	Amount     decimal.Decimal
	Token      string
	Status     OrderStatus
	FailReason string
	// Timestamps are unix nanoseconds. ExecutedAt is zero until executed.
	CreatedAt  int64
	ExecutedAt int64
}

// NewOrder returns a Pending order posted by the given maker.
func NewOrder(
	id, maker string, amount decimal.Decimal, createdAt int64,
) (*Order, error) {
	if id == "" {
		return nil, ErrInvalidOrderId
	}
	if maker == "" {
		return nil, ErrInvalidAccount
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	return &Order{
		Id:        id,
		Maker:     maker,
		Amount:    amount,
		Token:     NativeToken,
		Status:    OrderStatusPending,
		CreatedAt: createdAt,
	}, nil
}

func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

func (o *Order) IsExecuted() bool {
	return o.Status == OrderStatusExecuted
}

func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

func (o *Order) IsFailed() bool {
	return o.Status == OrderStatusFailed
}

// HasTaker returns whether the order has been filled by someone.
func (o *Order) HasTaker() bool {
	return o.Taker != ""
}

// ValidateExecution checks the order can be executed for the given amount,
// without changing it.
func (o *Order) ValidateExecution(amount decimal.Decimal) error {
	if !o.IsPending() {
		return ErrOrderNotPending
	}
	if !o.Amount.Equal(amount) {
		return ErrOrderAmountMismatch
	}
	return nil
}

// Execute brings a Pending order to the Executed status.
func (o *Order) Execute(taker string, amount decimal.Decimal, at int64) error {
	if err := o.ValidateExecution(amount); err != nil {
		return err
	}
	if taker == "" {
		return ErrInvalidAccount
	}
	o.Taker = taker
	o.ExecutedAt = at
	o.Status = OrderStatusExecuted
	return nil
}

// ValidateCancellation checks the given caller can cancel the order.
func (o *Order) ValidateCancellation(caller string) error {
	if o.Maker != caller {
		return ErrUnauthorized
	}
	if !o.IsPending() {
		return ErrOrderNotPending
	}
	return nil
}

// Cancel brings a Pending order to the Cancelled status. Only the maker is
// allowed to cancel.
func (o *Order) Cancel(caller string) error {
	if err := o.ValidateCancellation(caller); err != nil {
		return err
	}
	o.Status = OrderStatusCancelled
	return nil
}

// Fail brings a Pending order to the Failed status recording the reason
// reported by the settlement side.
func (o *Order) Fail(reason string) error {
	if !o.IsPending() {
		return ErrOrderNotPending
	}
	o.FailReason = reason
	o.Status = OrderStatusFailed
	return nil
}
