package dbpebble

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type transferRepositoryImpl struct {
	store *kvStore
}

func NewTransferRepositoryImpl(store *kvStore) domain.TransferRepository {
	return &transferRepositoryImpl{store}
}

func (r *transferRepositoryImpl) AddTransfer(
	ctx context.Context, transfer *domain.Transfer,
) error {
	var existing domain.Transfer
	found, err := r.store.get(ctx, transferKey(transfer.Id), &existing)
	if err != nil || found {
		return err
	}
	return r.store.set(ctx, transferKey(transfer.Id), transfer)
}

func (r *transferRepositoryImpl) GetTransfer(
	ctx context.Context, id string,
) (*domain.Transfer, error) {
	var transfer domain.Transfer
	found, err := r.store.get(ctx, transferKey(id), &transfer)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTransferNotFound
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

	return r.store.set(ctx, transferKey(id), updatedTransfer)
}

func (r *transferRepositoryImpl) ListRequestedTransfers(
	ctx context.Context,
) ([]domain.Transfer, error) {
	transfers, err := r.findTransfers(ctx, func(t domain.Transfer) bool {
		return !t.IsDispatched()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		if transfers[i].RequestedAt == transfers[j].RequestedAt {
			return transfers[i].Id < transfers[j].Id
		}
		return transfers[i].RequestedAt < transfers[j].RequestedAt
	})
	return transfers, nil
}

func (r *transferRepositoryImpl) ListTransfers(
	ctx context.Context, page *domain.Page,
) ([]domain.Transfer, error) {
	transfers, err := r.findTransfers(ctx, nil)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		if transfers[i].RequestedAt == transfers[j].RequestedAt {
			return transfers[i].Id > transfers[j].Id
		}
		return transfers[i].RequestedAt > transfers[j].RequestedAt
	})

	if page == nil {
		return transfers, nil
	}
	from, to := page.Bounds(len(transfers))
	return transfers[from:to], nil
}

func (r *transferRepositoryImpl) findTransfers(
	ctx context.Context, match func(domain.Transfer) bool,
) ([]domain.Transfer, error) {
	transfers := make([]domain.Transfer, 0)
	err := r.store.iterate(
		ctx, []byte(prefixTransfer), func(data []byte) error {
			var transfer domain.Transfer
			if err := json.Unmarshal(data, &transfer); err != nil {
				return err
			}
			if match == nil || match(transfer) {
				transfers = append(transfers, transfer)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
