package dbpebble

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type accountRepositoryImpl struct {
	store *kvStore
}

func NewAccountRepositoryImpl(store *kvStore) domain.AccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) GetAccount(
	ctx context.Context, id string,
) (*domain.Account, error) {
	var account domain.Account
	found, err := r.store.get(ctx, accountKey(id), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepositoryImpl) GetBalance(
	ctx context.Context, id string,
) (decimal.Decimal, error) {
	account, err := r.GetAccount(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, nil
	}
	return account.Balance, nil
}

func (r *accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	id string,
	updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	account, err := r.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		if account, err = domain.NewAccount(id); err != nil {
			return err
		}
	}

	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}

	return r.store.set(ctx, accountKey(id), updatedAccount)
}

func (r *accountRepositoryImpl) CountAccounts(ctx context.Context) (int, error) {
	count := 0
	err := r.store.iterate(ctx, []byte(prefixAccount), func(_ []byte) error {
		count++
		return nil
	})
	return count, err
}
