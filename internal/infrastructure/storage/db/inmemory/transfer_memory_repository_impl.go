package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type transferInmemoryStore struct {
	transfers map[string]domain.Transfer
	locker    *sync.RWMutex
}

type transferRepositoryImpl struct {
	store *transferInmemoryStore
}

// NewTransferRepositoryImpl returns a new inmemory TransferRepository
// implementation.
func NewTransferRepositoryImpl() domain.TransferRepository {
	return &transferRepositoryImpl{&transferInmemoryStore{
		transfers: map[string]domain.Transfer{},
		locker:    &sync.RWMutex{},
	}}
}

func (r transferRepositoryImpl) AddTransfer(
	ctx context.Context, transfer *domain.Transfer,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.setTransfer(ctx, *transfer)
	return nil
}

func (r transferRepositoryImpl) GetTransfer(
	_ context.Context, id string,
) (*domain.Transfer, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	transfer, ok := r.store.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	return &transfer, nil
}

func (r transferRepositoryImpl) UpdateTransfer(
	ctx context.Context,
	id string,
	updateFn func(t *domain.Transfer) (*domain.Transfer, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	transfer, ok := r.store.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}

	updatedTransfer, err := updateFn(&transfer)
	if err != nil {
		return err
	}

	r.setTransfer(ctx, *updatedTransfer)
	return nil
}

func (r transferRepositoryImpl) ListRequestedTransfers(
	_ context.Context,
) ([]domain.Transfer, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	transfers := make([]domain.Transfer, 0)
	for _, transfer := range r.store.transfers {
		if !transfer.IsDispatched() {
			transfers = append(transfers, transfer)
		}
	}
	sort.SliceStable(transfers, func(i, j int) bool {
		if transfers[i].RequestedAt == transfers[j].RequestedAt {
			return transfers[i].Id < transfers[j].Id
		}
		return transfers[i].RequestedAt < transfers[j].RequestedAt
	})
	return transfers, nil
}

func (r transferRepositoryImpl) ListTransfers(
	_ context.Context, page *domain.Page,
) ([]domain.Transfer, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	transfers := make([]domain.Transfer, 0, len(r.store.transfers))
	for _, transfer := range r.store.transfers {
		transfers = append(transfers, transfer)
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

func (r transferRepositoryImpl) setTransfer(
	ctx context.Context, transfer domain.Transfer,
) {
	prev, found := r.store.transfers[transfer.Id]
	r.store.transfers[transfer.Id] = transfer

	recordUndo(ctx, func() {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()

		if found {
			r.store.transfers[transfer.Id] = prev
			return
		}
		delete(r.store.transfers, transfer.Id)
	})
}
