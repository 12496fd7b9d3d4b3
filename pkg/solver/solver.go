package solver

import (
	"context"
	"errors"
	"fmt"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
)

// Solver names accepted by New.
const (
	NameMinCostFlow = "min-cost-flow"
)

// ErrUnknownSolver is returned by New for an unrecognized solver name.
var ErrUnknownSolver = errors.New("unknown solver")

// Solver computes a flow assignment for an analyzed graph. Implementations
// never mutate the input frames; solved tables are returned as new frames with
// the flow column appended.
type Solver interface {
	Name() string
	Solve(ctx context.Context, data core.GraphData, spec v1alpha1.ProblemSpec) (core.GraphData, error)
}

// New creates the named solver. An empty name selects min-cost-flow.
func New(name string) (Solver, error) {
	switch name {
	case "", NameMinCostFlow:
		return &MinCostFlow{log: ctrl.Log.WithName("solver")}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
}
