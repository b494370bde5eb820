package inmemory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type accountInmemoryStore struct {
	accounts map[string]domain.Account
	locker   *sync.RWMutex
}

type accountRepositoryImpl struct {
	store *accountInmemoryStore
}

// NewAccountRepositoryImpl returns a new inmemory AccountRepository
// implementation.
func NewAccountRepositoryImpl() domain.AccountRepository {
	return &accountRepositoryImpl{&accountInmemoryStore{
		accounts: map[string]domain.Account{},
		locker:   &sync.RWMutex{},
	}}
}

func (r accountRepositoryImpl) GetAccount(
	_ context.Context, id string,
) (*domain.Account, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (r accountRepositoryImpl) GetBalance(
	_ context.Context, id string,
) (decimal.Decimal, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return decimal.Zero, nil
	}
	return account.Balance, nil
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	id string,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	prev, found := r.store.accounts[id]
	// updateFn must not mutate the snapshot restored on rollback.
	next := prev
	current := &next
	if !found {
		account, err := domain.NewAccount(id)
		if err != nil {
			return err
		}
		current = account
	}

	updatedAccount, err := updateFn(current)
	if err != nil {
		return err
	}

	r.store.accounts[id] = *updatedAccount

	recordUndo(ctx, func() {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()

		if found {
			r.store.accounts[id] = prev
			return
		}
		delete(r.store.accounts, id)
	})
	return nil
}

func (r accountRepositoryImpl) CountAccounts(_ context.Context) (int, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return len(r.store.accounts), nil
}
