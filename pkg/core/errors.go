package core

import (
	"fmt"

	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// SchemaError is re-exported from the frame package: a required metadata role
// has no mapped column, or an operation was attempted on the Empty frame.
type SchemaError = frame.SchemaError

// BackendMismatchError is re-exported from the frame package: two frame
// operands originate from different concrete backends.
type BackendMismatchError = frame.BackendMismatchError

// InfeasibleProblemError reports that the solver cannot satisfy the capacity
// and conservation constraints. It is always raised instead of producing a
// clamped or partial flow assignment.
type InfeasibleProblemError struct {
	Reason   string
	Supply   int64
	Capacity int64
}

func (e *InfeasibleProblemError) Error() string {
	if e.Supply != 0 || e.Capacity != 0 {
		return fmt.Sprintf("infeasible problem: %s (supply=%d, capacity=%d)", e.Reason, e.Supply, e.Capacity)
	}
	return fmt.Sprintf("infeasible problem: %s", e.Reason)
}

// EmptyGraphError reports a Runner invoked with an Empty edges or nodes frame.
type EmptyGraphError struct {
	// Side is "edges" or "nodes".
	Side string
}

func (e *EmptyGraphError) Error() string {
	return fmt.Sprintf("cannot execute on empty graph: %s frame has no backing data", e.Side)
}

// StoreError wraps a backend-level failure during a store operation.
type StoreError struct {
	Op    string
	Scope GraphScope
	Err   error
}

func (e *StoreError) Error() string {
	if e.Scope != (GraphScope{}) {
		return fmt.Sprintf("graph store %s failed for %s: %v", e.Op, e.Scope, e.Err)
	}
	return fmt.Sprintf("graph store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
