package dbbadger

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type transferRepositoryImpl struct {
	store *badgerhold.Store
}

func NewTransferRepositoryImpl(
	store *badgerhold.Store,
) domain.TransferRepository {
	return &transferRepositoryImpl{store}
}

func (r *transferRepositoryImpl) AddTransfer(
	ctx context.Context, transfer *domain.Transfer,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, transfer.Id, *transfer)
	} else {
		err = r.store.Insert(transfer.Id, *transfer)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return nil
		}
		return err
	}
	return nil
}

func (r *transferRepositoryImpl) GetTransfer(
	ctx context.Context, id string,
) (*domain.Transfer, error) {
	var transfer domain.Transfer
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &transfer)
	} else {
		err = r.store.Get(id, &transfer)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepositoryImpl) UpdateTransfer(
	ctx context.Context,
	id string,
	updateFn func(t *domain.Transfer) (*domain.Transfer, error),
) error {
	transfer, err := r.GetTransfer(ctx, id)
	if err != nil {
		return err
	}

	updatedTransfer, err := updateFn(transfer)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, id, *updatedTransfer)
	}
	return r.store.Update(id, *updatedTransfer)
}

func (r *transferRepositoryImpl) ListRequestedTransfers(
	ctx context.Context,
) ([]domain.Transfer, error) {
	query := badgerhold.Where("Status").Eq(domain.TransferStatusRequested).
		SortBy("RequestedAt", "Id")
	return r.findTransfers(ctx, query)
}

func (r *transferRepositoryImpl) ListTransfers(
	ctx context.Context, page *domain.Page,
) ([]domain.Transfer, error) {
	query := (&badgerhold.Query{}).SortBy("RequestedAt", "Id").Reverse()
	if page != nil {
		offset, limit, ok := page.Offset()
		if !ok {
			return make([]domain.Transfer, 0), nil
		}
		query = query.Skip(offset).Limit(limit)
	}
	return r.findTransfers(ctx, query)
}

func (r *transferRepositoryImpl) findTransfers(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Transfer, error) {
	var transfers []domain.Transfer
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &transfers, query)
	} else {
		err = r.store.Find(&transfers, query)
	}
	if transfers == nil {
		transfers = make([]domain.Transfer, 0)
	}
	return transfers, err
}
