package domain

import "context"

// Solver is a principal allowed to execute orders on behalf of makers.
type Solver struct {
	Id      string
	AddedAt int64
}

// NewSolver ...
func NewSolver(id string, addedAt int64) (*Solver, error) {
	if id == "" {
		return nil, ErrInvalidSolver
	}
	return &Solver{Id: id, AddedAt: addedAt}, nil
}

// SolverRepository persists the solver allow-list.
type SolverRepository interface {
	// AddSolver is idempotent, an already listed solver keeps its AddedAt.
	AddSolver(ctx context.Context, solver *Solver) error
	// RemoveSolver is idempotent.
	RemoveSolver(ctx context.Context, id string) error
	IsSolver(ctx context.Context, id string) (bool, error)
	// ListSolvers returns the solvers sorted by id.
	ListSolvers(ctx context.Context) ([]Solver, error)
}
