// Package solver assigns flows to analyzed network problems.
//
// The package exposes a small Solver interface and a min-cost-flow backend.
// Given a graph in the standard column schema, the backend finds the flow
// assignment that ships every unit of declared supply at minimum total cost,
// where cost accrues per unit both on the edges a unit traverses and at the
// node that finally retains it.
//
// Solving is deterministic: the same tables always produce the same flows,
// including among cost-equal alternatives.
//
// Example usage:
//
//	s, err := solver.New(solver.NameMinCostFlow)
//	if err != nil {
//	    return err
//	}
//	solved, err := s.Solve(ctx, problem.Graph.Data, problem.Spec)
//	if err != nil {
//	    return err
//	}
package solver
