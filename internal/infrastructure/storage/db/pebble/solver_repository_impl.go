package dbpebble

import (
	"context"
	"encoding/json"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type solverRepositoryImpl struct {
	store *kvStore
}

func NewSolverRepositoryImpl(store *kvStore) domain.SolverRepository {
	return &solverRepositoryImpl{store}
}

func (r *solverRepositoryImpl) AddSolver(
	ctx context.Context, solver *domain.Solver,
) error {
	found, err := r.IsSolver(ctx, solver.Id)
	if err != nil || found {
		return err
	}
	return r.store.set(ctx, solverKey(solver.Id), solver)
}

func (r *solverRepositoryImpl) RemoveSolver(
	ctx context.Context, id string,
) error {
	return r.store.delete(ctx, solverKey(id))
}

func (r *solverRepositoryImpl) IsSolver(
	ctx context.Context, id string,
) (bool, error) {
	var solver domain.Solver
	return r.store.get(ctx, solverKey(id), &solver)
}

// ListSolvers relies on key ordering, ids share the same prefix.
func (r *solverRepositoryImpl) ListSolvers(
	ctx context.Context,
) ([]domain.Solver, error) {
	solvers := make([]domain.Solver, 0)
	err := r.store.iterate(ctx, []byte(prefixSolver), func(data []byte) error {
		var solver domain.Solver
		if err := json.Unmarshal(data, &solver); err != nil {
			return err
		}
		solvers = append(solvers, solver)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return solvers, nil
}
