package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// MinCostFlow routes every unit of declared supply through the network at
// minimum total cost. Each unit pays the unit cost of every edge it traverses
// plus the unit cost of the node that retains it; retention at a node is
// bounded by that node's capacity.
//
// The search is successive shortest paths over the residual network, with
// path selection made deterministic by relaxing nodes and arcs in insertion
// order and accepting only strictly shorter paths.
type MinCostFlow struct {
	log logr.Logger
}

func (*MinCostFlow) Name() string { return NameMinCostFlow }

// Solve implements Solver. The returned tables are the input tables with the
// flow column appended: per-edge traversed flow on the edge table, per-node
// retained flow on the node table.
func (s *MinCostFlow) Solve(ctx context.Context, data core.GraphData, spec v1alpha1.ProblemSpec) (core.GraphData, error) {
	if frame.IsEmpty(data.Nodes) {
		if frame.IsEmpty(data.Edges) {
			return data, nil
		}
		return core.GraphData{}, &frame.SchemaError{
			Op:     "solve",
			Column: spec.Metadata.NameColumn(),
			Reason: "edge table present but node table is empty",
		}
	}

	nodesDF, err := data.Nodes.Collect(ctx)
	if err != nil {
		return core.GraphData{}, err
	}
	edgesDF := &frame.DataFrame{}
	if !frame.IsEmpty(data.Edges) {
		if edgesDF, err = data.Edges.Collect(ctx); err != nil {
			return core.GraphData{}, err
		}
	}

	p, err := buildProblem(nodesDF, edgesDF, spec.Metadata)
	if err != nil {
		return core.GraphData{}, err
	}

	if err := p.checkReachability(); err != nil {
		return core.GraphData{}, err
	}

	edgeFlows, nodeFlows, totalCost, err := p.route(ctx)
	if err != nil {
		return core.GraphData{}, err
	}

	s.log.V(logging.DEBUG).Info("solved min-cost flow",
		"nodes", len(p.nodes), "edges", len(p.edges),
		"supply", p.totalSupply, "cost", totalCost)

	out := core.GraphData{Edges: frame.Empty}
	if edgesDF.NumColumns() > 0 {
		solvedEdges, err := edgesDF.WithColumn(frame.NewInt64Series(spec.Metadata.FlowColumn(), edgeFlows))
		if err != nil {
			return core.GraphData{}, err
		}
		out.Edges = solvedEdges.Lazy()
	}
	solvedNodes, err := nodesDF.WithColumn(frame.NewInt64Series(spec.Metadata.FlowColumn(), nodeFlows))
	if err != nil {
		return core.GraphData{}, err
	}
	out.Nodes = solvedNodes.Lazy()
	return out, nil
}

type problemNode struct {
	name     string
	capacity int64
	supply   int64
	unitCost int64
}

type problemEdge struct {
	src      int
	sink     int
	capacity int64
	unitCost int64
}

type problem struct {
	nodes       []problemNode
	edges       []problemEdge
	totalSupply int64
}

// buildProblem reads the standard-schema tables into an indexed network,
// validating identities, endpoint resolution and value ranges.
func buildProblem(nodes, edges *frame.DataFrame, meta v1alpha1.GraphMetadata) (*problem, error) {
	nameCol, ok := nodes.Column(meta.NameColumn())
	if !ok {
		return nil, &frame.SchemaError{Op: "solve", Column: meta.NameColumn(), Reason: "required column is missing"}
	}
	capacities, err := numericColumn(nodes, meta.CapacityColumn())
	if err != nil {
		return nil, err
	}
	supplies, err := numericColumn(nodes, meta.SupplyColumn())
	if err != nil {
		return nil, err
	}
	nodeCosts, err := numericColumn(nodes, meta.UnitCostColumn())
	if err != nil {
		return nil, err
	}

	p := &problem{nodes: make([]problemNode, nodes.NumRows())}
	index := make(map[string]int, nodes.NumRows())
	for i := range p.nodes {
		name := nameCol.ValueString(i)
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate node %q in node table", name)
		}
		index[name] = i

		capacity, err := boundedCapacity(capacities[i], meta.CapacityColumn(), name)
		if err != nil {
			return nil, err
		}
		if supplies[i] < 0 {
			return nil, fmt.Errorf("node %q has negative %s %d", name, meta.SupplyColumn(), supplies[i])
		}
		p.nodes[i] = problemNode{
			name:     name,
			capacity: capacity,
			supply:   supplies[i],
			unitCost: nodeCosts[i],
		}
		p.totalSupply += supplies[i]
	}

	if edges.NumColumns() == 0 {
		return p, nil
	}

	srcCol, ok := edges.Column(meta.SrcColumn())
	if !ok {
		return nil, &frame.SchemaError{Op: "solve", Column: meta.SrcColumn(), Reason: "required column is missing"}
	}
	sinkCol, ok := edges.Column(meta.SinkColumn())
	if !ok {
		return nil, &frame.SchemaError{Op: "solve", Column: meta.SinkColumn(), Reason: "required column is missing"}
	}
	edgeCapacities, err := numericColumn(edges, meta.CapacityColumn())
	if err != nil {
		return nil, err
	}
	edgeCosts, err := numericColumn(edges, meta.UnitCostColumn())
	if err != nil {
		return nil, err
	}

	p.edges = make([]problemEdge, edges.NumRows())
	for i := range p.edges {
		src, ok := index[srcCol.ValueString(i)]
		if !ok {
			return nil, fmt.Errorf("edge %d references unknown %s node %q", i, meta.SrcColumn(), srcCol.ValueString(i))
		}
		sink, ok := index[sinkCol.ValueString(i)]
		if !ok {
			return nil, fmt.Errorf("edge %d references unknown %s node %q", i, meta.SinkColumn(), sinkCol.ValueString(i))
		}
		capacity, err := boundedCapacity(edgeCapacities[i], meta.CapacityColumn(), fmt.Sprintf("edge %d", i))
		if err != nil {
			return nil, err
		}
		p.edges[i] = problemEdge{src: src, sink: sink, capacity: capacity, unitCost: edgeCosts[i]}
	}
	return p, nil
}

func numericColumn(df *frame.DataFrame, name string) ([]int64, error) {
	col, ok := df.Column(name)
	if !ok {
		return nil, &frame.SchemaError{Op: "solve", Column: name, Reason: "required column is missing"}
	}
	out := make([]int64, df.NumRows())
	for i := range out {
		v, ok := col.Number(i)
		if !ok {
			return nil, &frame.SchemaError{Op: "solve", Column: name, Reason: "column is not numeric"}
		}
		out[i] = int64(v)
	}
	return out, nil
}

func boundedCapacity(v int64, column, owner string) (int64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%s has negative %s %d", owner, column, v)
	}
	if uint64(v) > v1alpha1.MaxCapacity {
		return int64(v1alpha1.MaxCapacity), nil
	}
	return v, nil
}

// checkReachability rejects problems where the capacity of the nodes reachable
// from the supplying nodes cannot absorb the declared supply. Self-edges are
// ignored since they never move flow anywhere.
func (p *problem) checkReachability() error {
	if p.totalSupply == 0 {
		return nil
	}

	dg := simple.NewDirectedGraph()
	for i := range p.nodes {
		dg.AddNode(simple.Node(i))
	}
	for _, e := range p.edges {
		if e.src == e.sink {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(e.src), simple.Node(e.sink)))
	}

	reached := make(map[int64]bool, len(p.nodes))
	bfs := traverse.BreadthFirst{
		Visit: func(n graph.Node) { reached[n.ID()] = true },
	}
	for i, n := range p.nodes {
		if n.supply == 0 || reached[int64(i)] {
			continue
		}
		bfs.Reset()
		bfs.Walk(dg, simple.Node(i), nil)
	}

	var reachableCapacity int64
	for id := range reached {
		reachableCapacity += p.nodes[id].capacity
	}
	if reachableCapacity < p.totalSupply {
		return &core.InfeasibleProblemError{
			Reason:   "reachable capacity cannot absorb declared supply",
			Supply:   p.totalSupply,
			Capacity: reachableCapacity,
		}
	}
	return nil
}

// route runs successive shortest paths and extracts per-edge and per-node
// flows. The returned cost is the objective value.
func (p *problem) route(ctx context.Context) (edgeFlows, nodeFlows []int64, totalCost int64, err error) {
	n := len(p.nodes)
	source, target := n, n+1
	nw := newNetwork(n + 2)

	// Arc insertion order fixes the tie-break among cost-equal paths: supply
	// arcs, then retention arcs in node order, then transport arcs in edge
	// row order.
	for i, node := range p.nodes {
		if node.supply > 0 {
			nw.addArc(source, i, node.supply, 0)
		}
	}
	retention := make([]arcRef, n)
	for i, node := range p.nodes {
		retention[i] = nw.addArc(i, target, node.capacity, node.unitCost)
	}
	transport := make([]arcRef, len(p.edges))
	for i, e := range p.edges {
		if e.src == e.sink {
			transport[i] = arcRef{from: -1}
			continue
		}
		transport[i] = nw.addArc(e.src, e.sink, e.capacity, e.unitCost)
	}

	sent, totalCost, err := nw.minCostFlow(ctx, source, target, p.totalSupply)
	if err != nil {
		return nil, nil, 0, err
	}
	if sent < p.totalSupply {
		return nil, nil, 0, &core.InfeasibleProblemError{
			Reason:   "edge capacities cannot route declared supply",
			Supply:   p.totalSupply,
			Capacity: sent,
		}
	}

	edgeFlows = make([]int64, len(p.edges))
	for i, ref := range transport {
		if ref.from < 0 {
			continue
		}
		edgeFlows[i] = nw.flow(ref)
	}
	nodeFlows = make([]int64, n)
	for i, ref := range retention {
		nodeFlows[i] = nw.flow(ref)
	}
	return edgeFlows, nodeFlows, totalCost, nil
}

const distInf = int64(math.MaxInt64)

type arc struct {
	to   int
	rev  int
	cap  int64
	cost int64
}

type arcRef struct {
	from int
	idx  int
	cap  int64
}

type network struct {
	arcs [][]arc
}

func newNetwork(n int) *network {
	return &network{arcs: make([][]arc, n)}
}

func (nw *network) addArc(u, v int, capacity, cost int64) arcRef {
	nw.arcs[u] = append(nw.arcs[u], arc{to: v, rev: len(nw.arcs[v]), cap: capacity, cost: cost})
	nw.arcs[v] = append(nw.arcs[v], arc{to: u, rev: len(nw.arcs[u]) - 1, cap: 0, cost: -cost})
	return arcRef{from: u, idx: len(nw.arcs[u]) - 1, cap: capacity}
}

// flow reports how much of the arc's original capacity has been consumed.
func (nw *network) flow(ref arcRef) int64 {
	return ref.cap - nw.arcs[ref.from][ref.idx].cap
}

// minCostFlow pushes up to want units from source to target along successive
// shortest paths. Bellman-Ford handles the negative-cost residual arcs;
// strict relaxation in fixed node and arc order keeps the path choice
// deterministic.
func (nw *network) minCostFlow(ctx context.Context, source, target int, want int64) (sent, totalCost int64, err error) {
	n := len(nw.arcs)
	dist := make([]int64, n)
	prevNode := make([]int, n)
	prevArc := make([]int, n)

	for sent < want {
		if err := ctx.Err(); err != nil {
			return sent, totalCost, err
		}

		for i := range dist {
			dist[i] = distInf
			prevNode[i] = -1
		}
		dist[source] = 0
		for iter := 0; iter < n; iter++ {
			updated := false
			for u := 0; u < n; u++ {
				if dist[u] == distInf {
					continue
				}
				for ai, a := range nw.arcs[u] {
					if a.cap <= 0 || dist[u]+a.cost >= dist[a.to] {
						continue
					}
					dist[a.to] = dist[u] + a.cost
					prevNode[a.to] = u
					prevArc[a.to] = ai
					updated = true
				}
			}
			if !updated {
				break
			}
		}
		if dist[target] == distInf {
			break
		}

		push := want - sent
		for v := target; v != source; v = prevNode[v] {
			if a := nw.arcs[prevNode[v]][prevArc[v]]; a.cap < push {
				push = a.cap
			}
		}
		for v := target; v != source; v = prevNode[v] {
			a := &nw.arcs[prevNode[v]][prevArc[v]]
			a.cap -= push
			nw.arcs[a.to][a.rev].cap += push
		}
		sent += push
		totalCost += push * dist[target]
	}
	return sent, totalCost, nil
}
