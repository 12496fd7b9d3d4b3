// Package optimizer orchestrates the strictly linear optimization pipeline:
//
//	stored graph → analyze → solve → execute
//
// Each stage consumes the previous stage's output; a failing stage halts the
// run and leaves the store untouched, since the only write happens inside the
// runner after a successful solve.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/internal/analyzer"
	"github.com/ulagbulag-village/noah-cloud/internal/graphstore"
	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/internal/monitoring"
	"github.com/ulagbulag-village/noah-cloud/internal/runner"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/solver"
)

// Pipeline wires a store and the three pipeline stages together.
type Pipeline struct {
	store    core.GraphStore
	analyzer analyzer.Analyzer
	solver   solver.Solver
	runner   runner.Runner
	metrics  *monitoring.Metrics
	log      logr.Logger
}

// New assembles a pipeline. Metrics may be nil.
func New(store core.GraphStore, a analyzer.Analyzer, s solver.Solver, r runner.Runner, metrics *monitoring.Metrics) *Pipeline {
	return &Pipeline{
		store:    store,
		analyzer: a,
		solver:   s,
		runner:   r,
		metrics:  metrics,
		log:      ctrl.Log.WithName("optimizer"),
	}
}

// Run executes one full pipeline pass over the graph stored under the scope.
func (p *Pipeline) Run(ctx context.Context, scope core.GraphScope, spec v1alpha1.ProblemSpec) error {
	if err := p.run(ctx, scope, spec); err != nil {
		p.metrics.ObserveRun(monitoring.StatusFailed)
		return err
	}
	p.metrics.ObserveRun(monitoring.StatusSucceeded)
	p.observeStoredGraphs(ctx)
	return nil
}

func (p *Pipeline) run(ctx context.Context, scope core.GraphScope, spec v1alpha1.ProblemSpec) error {
	graph, err := p.store.Get(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to load graph for %s: %w", scope, err)
	}
	if graph == nil {
		return fmt.Errorf("no graph stored under scope %s", scope)
	}

	start := time.Now()
	problem, err := p.analyzer.Analyze(ctx, *graph, spec)
	if err != nil {
		return fmt.Errorf("analyze stage failed for %s: %w", scope, err)
	}
	p.observeStage(monitoring.StageAnalyze, start)

	start = time.Now()
	solved, err := p.solver.Solve(ctx, problem.Graph.Data, problem.Spec)
	if err != nil {
		var infeasible *core.InfeasibleProblemError
		if errors.As(err, &infeasible) {
			p.metrics.ObserveInfeasible()
		}
		return fmt.Errorf("solve stage failed for %s: %w", scope, err)
	}
	p.observeStage(monitoring.StageSolve, start)

	start = time.Now()
	scoped := graphstore.NewScoped(p.store, scope)
	if err := p.runner.Execute(ctx, scoped, solved, problem.Spec); err != nil {
		return fmt.Errorf("execute stage failed for %s: %w", scope, err)
	}
	p.observeStage(monitoring.StageExecute, start)

	p.log.V(logging.DEBUG).Info("pipeline run complete",
		"scope", scope.String(),
		"analyzer", p.analyzer.Name(),
		"solver", p.solver.Name(),
		"runner", p.runner.Name())
	return nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.ObserveStage(stage, time.Since(start))
}

func (p *Pipeline) observeStoredGraphs(ctx context.Context) {
	if p.metrics == nil {
		return
	}
	graphs, err := p.store.List(ctx, nil)
	if err != nil {
		p.log.Error(err, "failed to count stored graphs")
		return
	}
	p.metrics.SetStoredGraphs(len(graphs))
}
