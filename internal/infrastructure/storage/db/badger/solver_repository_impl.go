package dbbadger

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type solverRepositoryImpl struct {
	store *badgerhold.Store
}

func NewSolverRepositoryImpl(store *badgerhold.Store) domain.SolverRepository {
	return &solverRepositoryImpl{store}
}

func (r *solverRepositoryImpl) AddSolver(
	ctx context.Context, solver *domain.Solver,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, solver.Id, *solver)
	} else {
		err = r.store.Insert(solver.Id, *solver)
	}
	if err != nil && !errors.Is(err, badgerhold.ErrKeyExists) {
		return err
	}
	return nil
}

func (r *solverRepositoryImpl) RemoveSolver(
	ctx context.Context, id string,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxDelete(tx, id, domain.Solver{})
	} else {
		err = r.store.Delete(id, domain.Solver{})
	}
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return err
	}
	return nil
}

func (r *solverRepositoryImpl) IsSolver(
	ctx context.Context, id string,
) (bool, error) {
	var solver domain.Solver
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &solver)
	} else {
		err = r.store.Get(id, &solver)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *solverRepositoryImpl) ListSolvers(
	ctx context.Context,
) ([]domain.Solver, error) {
	query := (&badgerhold.Query{}).SortBy("Id")

	var solvers []domain.Solver
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &solvers, query)
	} else {
		err = r.store.Find(&solvers, query)
	}
	if solvers == nil {
		solvers = make([]domain.Solver, 0)
	}
	return solvers, err
}
