/*
Copyright 2025 The noah-cloud Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package e2e

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/internal/analyzer"
	"github.com/ulagbulag-village/noah-cloud/internal/collector"
	"github.com/ulagbulag-village/noah-cloud/internal/graphstore"
	"github.com/ulagbulag-village/noah-cloud/internal/monitoring"
	"github.com/ulagbulag-village/noah-cloud/internal/optimizer"
	"github.com/ulagbulag-village/noah-cloud/internal/runner"
	"github.com/ulagbulag-village/noah-cloud/pkg/config"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
	"github.com/ulagbulag-village/noah-cloud/pkg/solver"
)

var _ = Describe("optimization pipeline", func() {
	var (
		ctx   context.Context
		scope core.GraphScope
	)

	BeforeEach(func() {
		ctx = context.Background()
		scope = core.GraphScope{Kind: "cluster", Namespace: "default", Name: "main"}
	})

	newPipeline := func(store core.GraphStore) *optimizer.Pipeline {
		a, err := analyzer.New(analyzer.NameSchema)
		Expect(err).NotTo(HaveOccurred())
		s, err := solver.New(solver.NameMinCostFlow)
		Expect(err).NotTo(HaveOccurred())
		r, err := runner.New(runner.NameSimulator)
		Expect(err).NotTo(HaveOccurred())
		return optimizer.New(store, a, s, r, monitoring.NewMetrics(prometheus.NewRegistry()))
	}

	observe := func(c *collector.Collector) {
		row := func(src, sink string, value uint64) core.GraphRow[core.NodeKey] {
			r, err := core.NewGraphRow(core.EdgeKey[core.NodeKey]{
				IntervalMS: 1000,
				Link:       core.NodeKey{Kind: "link", Name: src + "-" + sink, Namespace: "default"},
				Sink:       core.NodeKey{Kind: "node", Name: sink, Namespace: "default"},
				Src:        core.NodeKey{Kind: "node", Name: src, Namespace: "default"},
			}, core.EdgeValue(value))
			Expect(err).NotTo(HaveOccurred())
			return r
		}
		c.Register(collector.NewStatic("e2e", scope, time.Second, []core.GraphRow[core.NodeKey]{
			row("a", "b", 20),
			row("b", "c", 10),
		}))
		Expect(c.RunOnce(ctx)).To(Succeed())
	}

	runPipeline := func(store core.GraphStore) {
		observe(collector.New(store))

		// Collected graphs carry capacities only; supply and cost come from
		// the problem manifest's column roles plus analyzer defaults.
		stored, err := store.Get(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).NotTo(BeNil())

		nodesDF, err := stored.Data.Nodes.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		names, ok := nodesDF.Column("name")
		Expect(ok).To(BeTrue())

		// The supplier holds all the supply and cannot retain any of it.
		supplies := make([]int64, nodesDF.NumRows())
		for i := range supplies {
			if names.Str(i) == "node/default/a" {
				supplies[i] = 15
			}
		}
		capacities := make([]int64, nodesDF.NumRows())
		for i := range capacities {
			switch names.Str(i) {
			case "node/default/a":
				capacities[i] = 0
			default:
				capacities[i] = 10
			}
		}
		rebuilt, err := nodesDF.WithColumn(frame.NewInt64Series("supply", supplies))
		Expect(err).NotTo(HaveOccurred())
		rebuilt, err = rebuilt.WithColumn(frame.NewInt64Series("capacity", capacities))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Insert(ctx, core.Graph{
			Scope: scope,
			Data:  core.GraphData{Edges: stored.Data.Edges, Nodes: rebuilt.Lazy()},
		})).To(Succeed())

		problem, err := config.ParseProblem([]byte(`
apiVersion: noah.ulagbulag.io/v1alpha1
kind: NetworkProblem
metadata:
  name: e2e
spec:
  verbose: true
`))
		Expect(err).NotTo(HaveOccurred())

		Expect(newPipeline(store).Run(ctx, scope, problem.Spec)).To(Succeed())

		executed, err := store.Get(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(executed).NotTo(BeNil())

		edgesDF, err := executed.Data.Edges.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())

		flow, ok := edgesDF.Column("flow")
		Expect(ok).To(BeTrue())
		fn, ok := edgesDF.Column("function")
		Expect(ok).To(BeTrue())
		Expect(fn.Str(0)).To(Equal(runner.NameSimulator))

		// 15 units leave a: 10 retained at b, 5 forwarded on to c.
		src, _ := edgesDF.Column("src")
		sink, _ := edgesDF.Column("sink")
		flows := map[string]int64{}
		for i := 0; i < edgesDF.NumRows(); i++ {
			flows[src.Str(i)+"->"+sink.Str(i)] = flow.Int(i)
		}
		Expect(flows["node/default/a->node/default/b"]).To(Equal(int64(15)))
		Expect(flows["node/default/b->node/default/c"]).To(Equal(int64(5)))
	}

	It("collects, solves and executes against the in-memory store", func() {
		store := graphstore.NewMemory()
		defer func() { Expect(store.Close(ctx)).To(Succeed()) }()
		runPipeline(store)
	})

	It("collects, solves and executes against the durable store", func() {
		store, err := graphstore.NewBadger(graphstore.BadgerConfig{
			Path: GinkgoT().TempDir(),
		})
		Expect(err).NotTo(HaveOccurred())
		defer func() { Expect(store.Close(ctx)).To(Succeed()) }()
		runPipeline(store)
	})

	It("surfaces infeasible problems without mutating the store", func() {
		store := graphstore.NewMemory()
		defer func() { Expect(store.Close(ctx)).To(Succeed()) }()

		observe(collector.New(store))
		stored, err := store.Get(ctx, scope)
		Expect(err).NotTo(HaveOccurred())

		nodesDF, err := stored.Data.Nodes.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		overloaded, err := nodesDF.WithColumn(frame.NewInt64Series("supply", []int64{1000, 0, 0}))
		Expect(err).NotTo(HaveOccurred())
		capped, err := overloaded.WithColumn(frame.NewInt64Series("capacity", []int64{1, 1, 1}))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Insert(ctx, core.Graph{
			Scope: scope,
			Data:  core.GraphData{Edges: stored.Data.Edges, Nodes: capped.Lazy()},
		})).To(Succeed())

		err = newPipeline(store).Run(ctx, scope, v1alpha1.ProblemSpec{})
		var infeasible *core.InfeasibleProblemError
		Expect(errors.As(err, &infeasible)).To(BeTrue())

		after, err := store.Get(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		afterNodes, err := after.Data.Nodes.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(afterNodes.HasColumn("flow")).To(BeFalse())
	})
})
