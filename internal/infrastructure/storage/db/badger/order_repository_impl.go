package dbbadger

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type orderRepositoryImpl struct {
	store *badgerhold.Store
}

func NewOrderRepositoryImpl(store *badgerhold.Store) domain.OrderRepository {
	return &orderRepositoryImpl{store}
}

func (r *orderRepositoryImpl) AddOrder(
	ctx context.Context, order *domain.Order,
) error {
	return r.upsertOrder(ctx, *order)
}

func (r *orderRepositoryImpl) GetOrder(
	ctx context.Context, id string,
) (*domain.Order, error) {
	return r.getOrder(ctx, id)
}

func (r *orderRepositoryImpl) UpdateOrder(
	ctx context.Context,
	id string,
	updateFn func(o *domain.Order) (*domain.Order, error),
) error {
	order, err := r.getOrder(ctx, id)
	if err != nil {
		return err
	}

	updatedOrder, err := updateFn(order)
	if err != nil {
		return err
	}

	return r.upsertOrder(ctx, *updatedOrder)
}

func (r *orderRepositoryImpl) ListOrders(
	ctx context.Context, filter domain.OrderFilter, page *domain.Page,
) ([]domain.Order, error) {
	var query *badgerhold.Query
	if filter.Maker != "" {
		query = badgerhold.Where("Maker").Eq(filter.Maker)
	}
	if filter.Status != nil {
		if query == nil {
			query = badgerhold.Where("Status").Eq(*filter.Status)
		} else {
			query = query.And("Status").Eq(*filter.Status)
		}
	}
	if query == nil {
		query = &badgerhold.Query{}
	}
	query = query.SortBy("CreatedAt", "Id").Reverse()

	if page != nil {
		offset, limit, ok := page.Offset()
		if !ok {
			return make([]domain.Order, 0), nil
		}
		query = query.Skip(offset).Limit(limit)
	}

	return r.findOrders(ctx, query)
}

func (r *orderRepositoryImpl) CountOrdersByStatus(
	ctx context.Context,
) (map[domain.OrderStatus]int, error) {
	orders, err := r.findOrders(ctx, &badgerhold.Query{})
	if err != nil {
		return nil, err
	}

	count := make(map[domain.OrderStatus]int)
	for _, order := range orders {
		count[order.Status]++
	}
	return count, nil
}

func (r *orderRepositoryImpl) getOrder(
	ctx context.Context, id string,
) (*domain.Order, error) {
	var order domain.Order
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &order)
	} else {
		err = r.store.Get(id, &order)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepositoryImpl) findOrders(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Order, error) {
	var orders []domain.Order
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &orders, query)
	} else {
		err = r.store.Find(&orders, query)
	}
	if orders == nil {
		orders = make([]domain.Order, 0)
	}
	return orders, err
}

func (r *orderRepositoryImpl) upsertOrder(
	ctx context.Context, order domain.Order,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpsert(tx, order.Id, order)
	}
	return r.store.Upsert(order.Id, order)
}
