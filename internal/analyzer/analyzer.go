// Package analyzer normalizes raw graphs into virtual problems the solver can
// consume: metadata roles are cast onto the standard column names, missing
// per-node and per-edge attributes are defaulted, and a missing edge set is
// synthesized as the full node fabric.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// Analyzer names accepted by New.
const (
	NameEmpty  = "empty"
	NameSchema = "schema"
)

// ErrUnknownAnalyzer is returned by New for an unrecognized analyzer name.
var ErrUnknownAnalyzer = errors.New("unknown analyzer")

// VirtualProblem is an analyzed problem: a graph whose tables follow the
// standard column schema, paired with the normalized spec. It is the only
// input the solver accepts.
type VirtualProblem struct {
	Spec  v1alpha1.ProblemSpec
	Graph core.Graph
}

// Analyzer turns a raw scoped graph into a VirtualProblem. Analysis is
// idempotent: analyzing an already-analyzed graph changes nothing.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, graph core.Graph, spec v1alpha1.ProblemSpec) (*VirtualProblem, error)
}

// New creates the named analyzer. An empty name selects the schema analyzer.
func New(name string) (Analyzer, error) {
	switch name {
	case NameEmpty:
		return &Empty{}, nil
	case "", NameSchema:
		return &Schema{log: ctrl.Log.WithName("analyzer")}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalyzer, name)
	}
}

// Empty is the passthrough analyzer. It trusts the caller to hand over graphs
// already in the standard schema.
type Empty struct{}

func (*Empty) Name() string { return NameEmpty }

func (*Empty) Analyze(_ context.Context, graph core.Graph, spec v1alpha1.ProblemSpec) (*VirtualProblem, error) {
	return &VirtualProblem{Spec: spec, Graph: graph}, nil
}

// Schema is the default analyzer. It casts declared metadata columns onto the
// standard names, validates that node identity exists, defaults the remaining
// role columns, and synthesizes the node fabric when the graph has no edges.
type Schema struct {
	log logr.Logger
}

func (*Schema) Name() string { return NameSchema }

func (a *Schema) Analyze(ctx context.Context, graph core.Graph, spec v1alpha1.ProblemSpec) (*VirtualProblem, error) {
	std := v1alpha1.StandardMetadata()

	nodes, edges := graph.Data.Nodes, graph.Data.Edges
	if nodes == nil {
		nodes = frame.Empty
	}
	if edges == nil {
		edges = frame.Empty
	}
	nodes = nodes.Cast(spec.Metadata.NodeMapping(std))
	edges = edges.Cast(spec.Metadata.EdgeMapping(std))

	nodes, err := a.normalizeNodes(ctx, nodes, std)
	if err != nil {
		return nil, err
	}
	edges, err = a.normalizeEdges(ctx, edges, nodes, std)
	if err != nil {
		return nil, err
	}

	// The returned spec addresses standard columns only, so re-analysis is a
	// pure identity.
	normalized := spec
	normalized.Metadata = std

	return &VirtualProblem{
		Spec: normalized,
		Graph: core.Graph{
			Scope: graph.Scope,
			Data:  core.GraphData{Edges: edges, Nodes: nodes},
		},
	}, nil
}

// normalizeNodes validates node identity and defaults the capacity, supply and
// unit cost columns.
func (a *Schema) normalizeNodes(ctx context.Context, nodes frame.LazyFrame, std v1alpha1.GraphMetadata) (frame.LazyFrame, error) {
	if frame.IsEmpty(nodes) {
		return frame.Empty, nil
	}

	df, err := nodes.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if !df.HasColumn(std.NameColumn()) {
		return nil, &frame.SchemaError{
			Op:     "analyze",
			Column: std.NameColumn(),
			Reason: "node table has no identity column",
		}
	}

	out := df.Lazy()
	for _, fill := range []struct {
		column string
		value  frame.Number
	}{
		{std.CapacityColumn(), frame.Number(v1alpha1.MaxCapacity)},
		{std.SupplyColumn(), 0},
		{std.UnitCostColumn(), 0},
	} {
		if df.HasColumn(fill.column) {
			continue
		}
		out, err = out.FillColumnWithValue(fill.column, fill.value)
		if err != nil {
			return nil, err
		}
		a.log.V(logging.DEBUG).Info("defaulted node column", "column", fill.column)
	}
	return out, nil
}

// normalizeEdges validates edge endpoints and defaults the capacity and unit
// cost columns. An empty edge frame over a non-empty node set becomes the full
// node fabric, capped at the problem capacity ceiling so node constraints stay
// the only binding limit.
func (a *Schema) normalizeEdges(ctx context.Context, edges, nodes frame.LazyFrame, std v1alpha1.GraphMetadata) (frame.LazyFrame, error) {
	if frame.IsEmpty(edges) {
		if frame.IsEmpty(nodes) {
			return frame.Empty, nil
		}

		a.log.V(logging.DEBUG).Info("synthesizing node fabric for edgeless graph")
		fabric, err := nodes.Fabric(frame.FabricSpec{
			NameColumn:     std.NameColumn(),
			SrcColumn:      std.SrcColumn(),
			SinkColumn:     std.SinkColumn(),
			CapacityColumn: std.CapacityColumn(),
			Capacity:       int64(v1alpha1.MaxCapacity),
		})
		if err != nil {
			return nil, err
		}
		return fabric.FillColumnWithValue(std.UnitCostColumn(), 0)
	}

	df, err := edges.Collect(ctx)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{std.SrcColumn(), std.SinkColumn()} {
		if !df.HasColumn(required) {
			return nil, &frame.SchemaError{
				Op:     "analyze",
				Column: required,
				Reason: "edge table has no endpoint column",
			}
		}
	}

	out := df.Lazy()
	for _, fill := range []struct {
		column string
		value  frame.Number
	}{
		{std.CapacityColumn(), frame.Number(v1alpha1.MaxCapacity)},
		{std.UnitCostColumn(), 0},
	} {
		if df.HasColumn(fill.column) {
			continue
		}
		out, err = out.FillColumnWithValue(fill.column, fill.value)
		if err != nil {
			return nil, err
		}
		a.log.V(logging.DEBUG).Info("defaulted edge column", "column", fill.column)
	}
	return out, nil
}
