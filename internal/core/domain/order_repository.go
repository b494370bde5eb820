package domain

import "context"

// OrderFilter restricts the orders returned by a listing. Zero values match
// everything.
type OrderFilter struct {
	Maker  string
	Status *OrderStatus
}

// Match returns whether the given order satisfies the filter.
func (f OrderFilter) Match(o Order) bool {
	if f.Maker != "" && o.Maker != f.Maker {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	return true
}

// OrderRepository is the abstraction for any kind of database intended to
// persist the order book.
type OrderRepository interface {
	// AddOrder stores the given order, replacing any other with the same id.
	AddOrder(ctx context.Context, order *Order) error
	// GetOrder returns the order with the given id or ErrOrderNotFound.
	GetOrder(ctx context.Context, id string) (*Order, error)
	// UpdateOrder allows to commit multiple changes to the same order in a
	// transactional way.
	UpdateOrder(
		ctx context.Context,
		id string,
		updateFn func(o *Order) (*Order, error),
	) error
	// ListOrders returns the orders matching the filter, newest first. A nil
	// page returns all of them.
	ListOrders(
		ctx context.Context, filter OrderFilter, page *Page,
	) ([]Order, error)
	// CountOrdersByStatus returns the number of orders for every status.
	CountOrdersByStatus(ctx context.Context) (map[OrderStatus]int, error)
}
