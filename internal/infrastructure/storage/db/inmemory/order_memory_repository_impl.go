package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type orderInmemoryStore struct {
	orders map[string]domain.Order
	locker *sync.RWMutex
}

type orderRepositoryImpl struct {
	store *orderInmemoryStore
}

// NewOrderRepositoryImpl returns a new inmemory OrderRepository
// implementation.
func NewOrderRepositoryImpl() domain.OrderRepository {
	return &orderRepositoryImpl{&orderInmemoryStore{
		orders: map[string]domain.Order{},
		locker: &sync.RWMutex{},
	}}
}

func (r orderRepositoryImpl) AddOrder(
	ctx context.Context, order *domain.Order,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.setOrder(ctx, *order)
	return nil
}

func (r orderRepositoryImpl) GetOrder(
	_ context.Context, id string,
) (*domain.Order, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (r orderRepositoryImpl) UpdateOrder(
	ctx context.Context,
	id string,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	updatedOrder, err := updateFn(&order)
	if err != nil {
		return err
	}

	r.setOrder(ctx, *updatedOrder)
	return nil
}

func (r orderRepositoryImpl) ListOrders(
	_ context.Context, filter domain.OrderFilter, page *domain.Page,
) ([]domain.Order, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	orders := make([]domain.Order, 0)
	for _, order := range r.store.orders {
		if filter.Match(order) {
			orders = append(orders, order)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt == orders[j].CreatedAt {
			return orders[i].Id > orders[j].Id
		}
		return orders[i].CreatedAt > orders[j].CreatedAt
	})

	if page == nil {
		return orders, nil
	}
	from, to := page.Bounds(len(orders))
	return orders[from:to], nil
}

func (r orderRepositoryImpl) CountOrdersByStatus(
	_ context.Context,
) (map[domain.OrderStatus]int, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	count := make(map[domain.OrderStatus]int)
	for _, order := range r.store.orders {
		count[order.Status]++
	}
	return count, nil
}

func (r orderRepositoryImpl) setOrder(ctx context.Context, order domain.Order) {
	prev, found := r.store.orders[order.Id]
	r.store.orders[order.Id] = order

	recordUndo(ctx, func() {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()

		if found {
			r.store.orders[order.Id] = prev
			return
		}
		delete(r.store.orders, order.Id)
	})
}
