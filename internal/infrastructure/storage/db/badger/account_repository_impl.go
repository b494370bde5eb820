package dbbadger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) GetAccount(
	ctx context.Context, id string,
) (*domain.Account, error) {
	return r.getAccount(ctx, id)
}

func (r *accountRepositoryImpl) GetBalance(
	ctx context.Context, id string,
) (decimal.Decimal, error) {
	account, err := r.getAccount(ctx, id)
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
	account, err := r.getAccount(ctx, id)
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

	return r.upsertAccount(ctx, *updatedAccount)
}

func (r *accountRepositoryImpl) CountAccounts(ctx context.Context) (int, error) {
	query := &badgerhold.Query{}
	var (
		count uint64
		err   error
	)
	if tx := txFromContext(ctx); tx != nil {
		count, err = r.store.TxCount(tx, domain.Account{}, query)
	} else {
		count, err = r.store.Count(domain.Account{}, query)
	}
	return int(count), err
}

func (r *accountRepositoryImpl) getAccount(
	ctx context.Context, id string,
) (*domain.Account, error) {
	var account domain.Account
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &account)
	} else {
		err = r.store.Get(id, &account)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepositoryImpl) upsertAccount(
	ctx context.Context, account domain.Account,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpsert(tx, account.Id, account)
	}
	return r.store.Upsert(account.Id, account)
}
