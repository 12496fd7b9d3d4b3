package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

func init() {
	logging.NewTestLogger()
}

func testScope() core.GraphScope {
	return core.GraphScope{Kind: "cluster", Namespace: "default", Name: "main"}
}

func TestNewAnalyzer(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", NameSchema, false},
		{NameSchema, NameSchema, false},
		{NameEmpty, NameEmpty, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownAnalyzer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Name())
		})
	}
}

func TestEmptyAnalyzerPassesThrough(t *testing.T) {
	a := &Empty{}
	graph := core.Graph{Scope: testScope()}
	spec := v1alpha1.ProblemSpec{Verbose: true}

	got, err := a.Analyze(context.Background(), graph, spec)
	require.NoError(t, err)
	assert.Equal(t, graph, got.Graph)
	assert.Equal(t, spec, got.Spec)
}

func TestSchemaCastsAndDefaults(t *testing.T) {
	nodes, err := frame.NewDataFrame(
		frame.NewStringSeries("vertex", []string{"a", "b"}),
		frame.NewInt64Series("cap", []int64{20, 10}),
	)
	require.NoError(t, err)
	edges, err := frame.NewDataFrame(
		frame.NewStringSeries("from", []string{"a"}),
		frame.NewStringSeries("to", []string{"b"}),
	)
	require.NoError(t, err)

	spec := v1alpha1.ProblemSpec{Metadata: v1alpha1.GraphMetadata{
		Name:     "vertex",
		Capacity: "cap",
		Src:      "from",
		Sink:     "to",
	}}
	a, err := New(NameSchema)
	require.NoError(t, err)

	got, err := a.Analyze(context.Background(), core.Graph{
		Scope: testScope(),
		Data:  core.GraphData{Edges: edges.Lazy(), Nodes: nodes.Lazy()},
	}, spec)
	require.NoError(t, err)

	nodesDF, err := got.Graph.Data.Nodes.Collect(context.Background())
	require.NoError(t, err)
	for _, column := range []string{"name", "capacity", "supply", "unit_cost"} {
		assert.True(t, nodesDF.HasColumn(column), "missing node column %q", column)
	}
	capacity, _ := nodesDF.Column("capacity")
	assert.Equal(t, []int64{20, 10}, capacity.Int64Values())
	supply, _ := nodesDF.Column("supply")
	assert.Equal(t, []int64{0, 0}, supply.Int64Values())

	edgesDF, err := got.Graph.Data.Edges.Collect(context.Background())
	require.NoError(t, err)
	for _, column := range []string{"src", "sink", "capacity", "unit_cost"} {
		assert.True(t, edgesDF.HasColumn(column), "missing edge column %q", column)
	}
	edgeCap, _ := edgesDF.Column("capacity")
	assert.Equal(t, []int64{int64(v1alpha1.MaxCapacity)}, edgeCap.Int64Values())

	// The normalized spec addresses standard columns only.
	assert.Equal(t, v1alpha1.StandardMetadata(), got.Spec.Metadata)
}

func TestSchemaIsIdempotent(t *testing.T) {
	nodes, err := frame.NewDataFrame(
		frame.NewStringSeries("name", []string{"a", "b"}),
		frame.NewInt64Series("capacity", []int64{20, 10}),
		frame.NewInt64Series("supply", []int64{20, 0}),
		frame.NewInt64Series("unit_cost", []int64{5, 0}),
	)
	require.NoError(t, err)
	edges, err := frame.NewDataFrame(
		frame.NewStringSeries("src", []string{"a"}),
		frame.NewStringSeries("sink", []string{"b"}),
		frame.NewInt64Series("capacity", []int64{20}),
		frame.NewInt64Series("unit_cost", []int64{1}),
	)
	require.NoError(t, err)

	a, err := New(NameSchema)
	require.NoError(t, err)
	graph := core.Graph{Scope: testScope(), Data: core.GraphData{Edges: edges.Lazy(), Nodes: nodes.Lazy()}}

	once, err := a.Analyze(context.Background(), graph, v1alpha1.ProblemSpec{})
	require.NoError(t, err)
	twice, err := a.Analyze(context.Background(), once.Graph, once.Spec)
	require.NoError(t, err)

	onceNodes, err := once.Graph.Data.Nodes.Collect(context.Background())
	require.NoError(t, err)
	twiceNodes, err := twice.Graph.Data.Nodes.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, twiceNodes.Equal(onceNodes))

	onceEdges, err := once.Graph.Data.Edges.Collect(context.Background())
	require.NoError(t, err)
	twiceEdges, err := twice.Graph.Data.Edges.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, twiceEdges.Equal(onceEdges))
}

func TestSchemaSynthesizesFabric(t *testing.T) {
	nodes, err := frame.NewDataFrame(
		frame.NewStringSeries("name", []string{"a", "b"}),
	)
	require.NoError(t, err)

	a, err := New(NameSchema)
	require.NoError(t, err)
	got, err := a.Analyze(context.Background(), core.Graph{
		Scope: testScope(),
		Data:  core.GraphData{Edges: frame.Empty, Nodes: nodes.Lazy()},
	}, v1alpha1.ProblemSpec{})
	require.NoError(t, err)

	edgesDF, err := got.Graph.Data.Edges.Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, edgesDF.NumRows())

	capacity, ok := edgesDF.Column("capacity")
	require.True(t, ok)
	for i := 0; i < capacity.Len(); i++ {
		assert.Equal(t, int64(v1alpha1.MaxCapacity), capacity.Int(i))
	}
	assert.True(t, edgesDF.HasColumn("unit_cost"))
}

func TestSchemaRejectsMissingIdentity(t *testing.T) {
	nodes, err := frame.NewDataFrame(
		frame.NewInt64Series("capacity", []int64{1}),
	)
	require.NoError(t, err)

	a, err := New(NameSchema)
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), core.Graph{
		Scope: testScope(),
		Data:  core.GraphData{Edges: frame.Empty, Nodes: nodes.Lazy()},
	}, v1alpha1.ProblemSpec{})

	var schemaErr *frame.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "name", schemaErr.Column)
}

func TestSchemaRejectsMissingEndpoints(t *testing.T) {
	nodes, err := frame.NewDataFrame(
		frame.NewStringSeries("name", []string{"a"}),
	)
	require.NoError(t, err)
	edges, err := frame.NewDataFrame(
		frame.NewStringSeries("src", []string{"a"}),
	)
	require.NoError(t, err)

	a, err := New(NameSchema)
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), core.Graph{
		Scope: testScope(),
		Data:  core.GraphData{Edges: edges.Lazy(), Nodes: nodes.Lazy()},
	}, v1alpha1.ProblemSpec{})

	var schemaErr *frame.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "sink", schemaErr.Column)
}

func TestSchemaOnFullyEmptyGraph(t *testing.T) {
	a, err := New(NameSchema)
	require.NoError(t, err)
	got, err := a.Analyze(context.Background(), core.Graph{Scope: testScope()}, v1alpha1.ProblemSpec{})
	require.NoError(t, err)
	assert.True(t, frame.IsEmpty(got.Graph.Data.Nodes))
	assert.True(t, frame.IsEmpty(got.Graph.Data.Edges))
}
