package solver

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

func TestNewSolver(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, NameMinCostFlow, s.Name())

	_, err = New("bogus")
	require.ErrorIs(t, err, ErrUnknownSolver)
}

func graphData(t *testing.T, nodes, edges *frame.DataFrame) core.GraphData {
	t.Helper()
	data := core.GraphData{Nodes: nodes.Lazy(), Edges: frame.Empty}
	if edges != nil {
		data.Edges = edges.Lazy()
	}
	return data
}

func standardNodes(t *testing.T, names []string, capacity, supply, unitCost []int64) *frame.DataFrame {
	t.Helper()
	df, err := frame.NewDataFrame(
		frame.NewStringSeries("name", names),
		frame.NewInt64Series("capacity", capacity),
		frame.NewInt64Series("supply", supply),
		frame.NewInt64Series("unit_cost", unitCost),
	)
	require.NoError(t, err)
	return df
}

func standardEdges(t *testing.T, src, sink []string, capacity, unitCost []int64) *frame.DataFrame {
	t.Helper()
	df, err := frame.NewDataFrame(
		frame.NewStringSeries("src", src),
		frame.NewStringSeries("sink", sink),
		frame.NewInt64Series("capacity", capacity),
		frame.NewInt64Series("unit_cost", unitCost),
	)
	require.NoError(t, err)
	return df
}

func flowColumn(t *testing.T, f frame.LazyFrame) []int64 {
	t.Helper()
	df, err := f.Collect(context.Background())
	require.NoError(t, err)
	col, ok := df.Column("flow")
	require.True(t, ok, "flow column missing, have %v", df.Columns())
	return col.Int64Values()
}

// Two nodes, one edge. Retaining at the supplier costs 5 per unit, shipping
// costs 1 per unit and retention at the receiver is free, so the receiver
// fills to capacity and the rest stays at the supplier.
func TestSolveTwoNodeNetwork(t *testing.T) {
	nodes := standardNodes(t,
		[]string{"a", "b"},
		[]int64{20, 10},
		[]int64{20, 0},
		[]int64{5, 0},
	)
	edges := standardEdges(t, []string{"a"}, []string{"b"}, []int64{20}, []int64{1})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	got, err := s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, flowColumn(t, got.Edges))
	assert.Equal(t, []int64{10, 10}, flowColumn(t, got.Nodes))

	// Input tables are left untouched.
	assert.False(t, nodes.HasColumn("flow"))
	assert.False(t, edges.HasColumn("flow"))
}

func TestSolvePrefersCheaperRoute(t *testing.T) {
	nodes := standardNodes(t,
		[]string{"a", "b", "c"},
		[]int64{0, 10, 10},
		[]int64{10, 0, 0},
		[]int64{0, 0, 0},
	)
	edges := standardEdges(t,
		[]string{"a", "a"},
		[]string{"b", "c"},
		[]int64{10, 10},
		[]int64{3, 1},
	)

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	got, err := s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 10}, flowColumn(t, got.Edges))
	assert.Equal(t, []int64{0, 0, 10}, flowColumn(t, got.Nodes))
}

func TestSolveIsDeterministicAmongEqualCosts(t *testing.T) {
	// Two cost-equal routes; the tie must break the same way every run.
	nodes := standardNodes(t,
		[]string{"a", "b", "c"},
		[]int64{0, 10, 10},
		[]int64{10, 0, 0},
		[]int64{0, 0, 0},
	)
	edges := standardEdges(t,
		[]string{"a", "a"},
		[]string{"b", "c"},
		[]int64{10, 10},
		[]int64{1, 1},
	)

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)

	first, err := s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
	require.NoError(t, err)
	want := flowColumn(t, first.Edges)

	for i := 0; i < 5; i++ {
		again, err := s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
		require.NoError(t, err)
		assert.Equal(t, want, flowColumn(t, again.Edges))
	}
}

func TestSolveInfeasibleCapacity(t *testing.T) {
	nodes := standardNodes(t,
		[]string{"a", "b"},
		[]int64{5, 5},
		[]int64{100, 0},
		[]int64{0, 0},
	)
	edges := standardEdges(t, []string{"a"}, []string{"b"}, []int64{100}, []int64{0})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})

	var infeasible *core.InfeasibleProblemError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, int64(100), infeasible.Supply)
	assert.Equal(t, int64(10), infeasible.Capacity)
}

func TestSolveInfeasibleEdgeCapacity(t *testing.T) {
	// Reachable node capacity suffices, but the connecting edge is too thin.
	nodes := standardNodes(t,
		[]string{"a", "b"},
		[]int64{0, 10},
		[]int64{10, 0},
		[]int64{0, 0},
	)
	edges := standardEdges(t, []string{"a"}, []string{"b"}, []int64{5}, []int64{0})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})

	var infeasible *core.InfeasibleProblemError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, int64(10), infeasible.Supply)
	assert.Equal(t, int64(5), infeasible.Capacity)
}

func TestSolveUnknownEndpoint(t *testing.T) {
	nodes := standardNodes(t, []string{"a"}, []int64{10}, []int64{0}, []int64{0})
	edges := standardEdges(t, []string{"a"}, []string{"ghost"}, []int64{1}, []int64{0})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestSolveZeroSupply(t *testing.T) {
	nodes := standardNodes(t, []string{"a", "b"}, []int64{10, 10}, []int64{0, 0}, []int64{1, 1})
	edges := standardEdges(t, []string{"a"}, []string{"b"}, []int64{10}, []int64{1})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	got, err := s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
	require.NoError(t, err)

	assert.Equal(t, []int64{0}, flowColumn(t, got.Edges))
	assert.Equal(t, []int64{0, 0}, flowColumn(t, got.Nodes))
}

func TestSolveSelfEdgeCarriesNoFlow(t *testing.T) {
	nodes := standardNodes(t, []string{"a"}, []int64{10}, []int64{10}, []int64{0})
	edges := standardEdges(t, []string{"a"}, []string{"a"}, []int64{10}, []int64{0})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	got, err := s.Solve(context.Background(), graphData(t, nodes, edges), v1alpha1.ProblemSpec{})
	require.NoError(t, err)

	assert.Equal(t, []int64{0}, flowColumn(t, got.Edges))
	assert.Equal(t, []int64{10}, flowColumn(t, got.Nodes))
}

func TestSolveNodesOnly(t *testing.T) {
	nodes := standardNodes(t, []string{"a"}, []int64{10}, []int64{10}, []int64{2})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	got, err := s.Solve(context.Background(), graphData(t, nodes, nil), v1alpha1.ProblemSpec{})
	require.NoError(t, err)

	assert.True(t, frame.IsEmpty(got.Edges))
	assert.Equal(t, []int64{10}, flowColumn(t, got.Nodes))
}

func TestSolveRejectsNegativeValues(t *testing.T) {
	nodes := standardNodes(t, []string{"a"}, []int64{-1}, []int64{0}, []int64{0})

	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), graphData(t, nodes, nil), v1alpha1.ProblemSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestSolveEmptyGraphPassesThrough(t *testing.T) {
	s, err := New(NameMinCostFlow)
	require.NoError(t, err)
	got, err := s.Solve(context.Background(), core.GraphData{Edges: frame.Empty, Nodes: frame.Empty}, v1alpha1.ProblemSpec{})
	require.NoError(t, err)
	assert.True(t, frame.IsEmpty(got.Edges))
	assert.True(t, frame.IsEmpty(got.Nodes))
}
