// Package runner executes solved graphs: each backend takes a flow assignment,
// acts on it, and writes the executed graph back into the store under the
// scope it was solved for.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// Runner names accepted by New.
const (
	NameSimulator = "simulator"
	NameLive      = "live"
)

// ErrUnknownRunner is returned by New for an unrecognized runner name.
var ErrUnknownRunner = errors.New("unknown runner")

// Runner acts on a solved graph. Execution must refuse graphs whose frames
// have no backing data rather than silently doing nothing.
type Runner interface {
	Name() string
	Execute(ctx context.Context, store core.ScopedGraphStore, data core.GraphData, spec v1alpha1.ProblemSpec) error
}

// New creates the named runner. An empty name selects the simulator. The live
// runner needs a target client and is constructed with NewLive instead.
func New(name string) (Runner, error) {
	switch name {
	case "", NameSimulator:
		return &Simulator{log: ctrl.Log.WithName("runner").WithName(NameSimulator)}, nil
	case NameLive:
		return nil, fmt.Errorf("%w: %q requires a target client, use NewLive", ErrUnknownRunner, name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRunner, name)
	}
}

// checkExecutable rejects graphs whose frames have no backing data. An empty
// frame here means an upstream stage was skipped, never "zero flows".
func checkExecutable(data core.GraphData) error {
	if frame.IsEmpty(data.Edges) {
		return &core.EmptyGraphError{Side: "edges"}
	}
	if frame.IsEmpty(data.Nodes) {
		return &core.EmptyGraphError{Side: "nodes"}
	}
	return nil
}

// writeBack tags the edge table with the executing function and stores the
// executed graph under the runner's scope.
func writeBack(ctx context.Context, store core.ScopedGraphStore, data core.GraphData, spec v1alpha1.ProblemSpec, function string) error {
	edges, err := data.Edges.Alias(spec.Metadata.FunctionColumn(), frame.FunctionMetadata{Name: function})
	if err != nil {
		return err
	}
	return store.Insert(ctx, core.GraphData{Edges: edges, Nodes: data.Nodes})
}

// Simulator applies flows to nothing: it tags and stores the executed graph so
// the outcome of a plan can be inspected without touching any real target.
type Simulator struct {
	log logr.Logger
}

func (*Simulator) Name() string { return NameSimulator }

func (r *Simulator) Execute(ctx context.Context, store core.ScopedGraphStore, data core.GraphData, spec v1alpha1.ProblemSpec) error {
	if err := checkExecutable(data); err != nil {
		return err
	}

	if spec.Verbose {
		cost, err := TotalCost(ctx, data, spec.Metadata)
		if err != nil {
			return err
		}
		r.log.Info("simulated flow execution", "scope", store.Scope().String(), "cost", cost)
	}
	return writeBack(ctx, store, data, spec, NameSimulator)
}

// FlowDecision is one positive flow assignment handed to a live target.
type FlowDecision struct {
	Src  string
	Sink string
	Flow int64
}

// TargetClient applies flow decisions to a real system.
type TargetClient interface {
	Apply(ctx context.Context, decision FlowDecision) error
}

// Live applies every positive edge flow to the target, in edge row order, then
// stores the executed graph. A failed decision aborts execution before the
// write-back, so the store never records a graph that was not fully applied.
type Live struct {
	client TargetClient
	log    logr.Logger
}

// NewLive creates the live runner around the given target client.
func NewLive(client TargetClient) *Live {
	return &Live{client: client, log: ctrl.Log.WithName("runner").WithName(NameLive)}
}

func (*Live) Name() string { return NameLive }

func (r *Live) Execute(ctx context.Context, store core.ScopedGraphStore, data core.GraphData, spec v1alpha1.ProblemSpec) error {
	if err := checkExecutable(data); err != nil {
		return err
	}

	decisions, err := positiveFlows(ctx, data.Edges, spec.Metadata)
	if err != nil {
		return err
	}
	for _, d := range decisions {
		if err := r.client.Apply(ctx, d); err != nil {
			return fmt.Errorf("failed to apply flow %s -> %s (%d): %w", d.Src, d.Sink, d.Flow, err)
		}
		r.log.V(1).Info("applied flow", "src", d.Src, "sink", d.Sink, "flow", d.Flow)
	}
	return writeBack(ctx, store, data, spec, NameLive)
}

// positiveFlows extracts the edge rows carrying flow, in row order.
func positiveFlows(ctx context.Context, edges frame.LazyFrame, meta v1alpha1.GraphMetadata) ([]FlowDecision, error) {
	df, err := edges.Collect(ctx)
	if err != nil {
		return nil, err
	}

	srcCol, ok := df.Column(meta.SrcColumn())
	if !ok {
		return nil, &frame.SchemaError{Op: "execute", Column: meta.SrcColumn(), Reason: "required column is missing"}
	}
	sinkCol, ok := df.Column(meta.SinkColumn())
	if !ok {
		return nil, &frame.SchemaError{Op: "execute", Column: meta.SinkColumn(), Reason: "required column is missing"}
	}
	flowCol, ok := df.Column(meta.FlowColumn())
	if !ok {
		return nil, &frame.SchemaError{Op: "execute", Column: meta.FlowColumn(), Reason: "graph has not been solved"}
	}

	var out []FlowDecision
	for i := 0; i < df.NumRows(); i++ {
		flow, ok := flowCol.Number(i)
		if !ok {
			return nil, &frame.SchemaError{Op: "execute", Column: meta.FlowColumn(), Reason: "column is not numeric"}
		}
		if flow <= 0 {
			continue
		}
		out = append(out, FlowDecision{
			Src:  srcCol.ValueString(i),
			Sink: sinkCol.ValueString(i),
			Flow: int64(flow),
		})
	}
	return out, nil
}

// TotalCost computes the objective value of a solved graph: flow times unit
// cost summed over the edge table, plus retained flow times unit cost summed
// over the node table.
func TotalCost(ctx context.Context, data core.GraphData, meta v1alpha1.GraphMetadata) (int64, error) {
	edgeCost, err := frameCost(ctx, data.Edges, meta)
	if err != nil {
		return 0, err
	}
	nodeCost, err := frameCost(ctx, data.Nodes, meta)
	if err != nil {
		return 0, err
	}
	return edgeCost + nodeCost, nil
}

func frameCost(ctx context.Context, f frame.LazyFrame, meta v1alpha1.GraphMetadata) (int64, error) {
	if frame.IsEmpty(f) {
		return 0, nil
	}
	df, err := f.Collect(ctx)
	if err != nil {
		return 0, err
	}
	flowCol, ok := df.Column(meta.FlowColumn())
	if !ok {
		return 0, &frame.SchemaError{Op: "total_cost", Column: meta.FlowColumn(), Reason: "graph has not been solved"}
	}
	costCol, ok := df.Column(meta.UnitCostColumn())
	if !ok {
		return 0, &frame.SchemaError{Op: "total_cost", Column: meta.UnitCostColumn(), Reason: "required column is missing"}
	}

	var total int64
	for i := 0; i < df.NumRows(); i++ {
		flow, ok := flowCol.Number(i)
		if !ok {
			return 0, &frame.SchemaError{Op: "total_cost", Column: meta.FlowColumn(), Reason: "column is not numeric"}
		}
		cost, ok := costCol.Number(i)
		if !ok {
			return 0, &frame.SchemaError{Op: "total_cost", Column: meta.UnitCostColumn(), Reason: "column is not numeric"}
		}
		total += int64(flow) * int64(cost)
	}
	return total, nil
}
