package dbpebble

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type orderRepositoryImpl struct {
	store *kvStore
}

func NewOrderRepositoryImpl(store *kvStore) domain.OrderRepository {
	return &orderRepositoryImpl{store}
}

func (r *orderRepositoryImpl) AddOrder(
	ctx context.Context, order *domain.Order,
) error {
	return r.store.set(ctx, orderKey(order.Id), order)
}

func (r *orderRepositoryImpl) GetOrder(
	ctx context.Context, id string,
) (*domain.Order, error) {
	var order domain.Order
	found, err := r.store.get(ctx, orderKey(id), &order)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (r *orderRepositoryImpl) UpdateOrder(
	ctx context.Context,
	id string,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	updatedOrder, err := updateFn(order)
	if err != nil {
		return err
	}

	return r.store.set(ctx, orderKey(id), updatedOrder)
}

func (r *orderRepositoryImpl) ListOrders(
	ctx context.Context, filter domain.OrderFilter, page *domain.Page,
) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	if err := r.store.iterate(
		ctx, []byte(prefixOrder), func(data []byte) error {
			var order domain.Order
			if err := json.Unmarshal(data, &order); err != nil {
				return err
			}
			if filter.Match(order) {
				orders = append(orders, order)
			}
			return nil
		},
	); err != nil {
		return nil, err
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

func (r *orderRepositoryImpl) CountOrdersByStatus(
	ctx context.Context,
) (map[domain.OrderStatus]int, error) {
	count := make(map[domain.OrderStatus]int)
	err := r.store.iterate(ctx, []byte(prefixOrder), func(data []byte) error {
		var order struct{ Status domain.OrderStatus }
		if err := json.Unmarshal(data, &order); err != nil {
			return err
		}
		count[order.Status]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return count, nil
}
