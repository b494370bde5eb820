package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type solverRepositoryImpl struct {
	solvers map[string]domain.Solver
	locker  *sync.RWMutex
}

// NewSolverRepositoryImpl returns a new inmemory SolverRepository
// implementation.
func NewSolverRepositoryImpl() domain.SolverRepository {
	return &solverRepositoryImpl{
		solvers: map[string]domain.Solver{},
		locker:  &sync.RWMutex{},
	}
}

func (r *solverRepositoryImpl) AddSolver(
	ctx context.Context, solver *domain.Solver,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if _, ok := r.solvers[solver.Id]; ok {
		return nil
	}
	r.solvers[solver.Id] = *solver

	recordUndo(ctx, func() {
		r.locker.Lock()
		defer r.locker.Unlock()

		delete(r.solvers, solver.Id)
	})
	return nil
}

func (r *solverRepositoryImpl) RemoveSolver(
	ctx context.Context, id string,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	prev, ok := r.solvers[id]
	if !ok {
		return nil
	}
	delete(r.solvers, id)

	recordUndo(ctx, func() {
		r.locker.Lock()
		defer r.locker.Unlock()

		r.solvers[id] = prev
	})
	return nil
}

func (r *solverRepositoryImpl) IsSolver(
	_ context.Context, id string,
) (bool, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	_, ok := r.solvers[id]
	return ok, nil
}

func (r *solverRepositoryImpl) ListSolvers(
	_ context.Context,
) ([]domain.Solver, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	solvers := make([]domain.Solver, 0, len(r.solvers))
	for _, s := range r.solvers {
		solvers = append(solvers, s)
	}
	sort.Slice(solvers, func(i, j int) bool {
		return solvers[i].Id < solvers[j].Id
	})
	return solvers, nil
}
