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

package collector

import (
	"sort"

	"github.com/ulagbulag-village/noah-cloud/api/v1alpha1"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// GraphFromRows flattens edge observations into a stored graph.
//
// Rows are deduplicated by content address, keeping the latest value, so a
// source may re-observe the same edge freely. The edge table carries the
// observed value in the capacity column; the node table is derived from the
// distinct endpoint identities, leaving the remaining roles to the analyzer's
// defaults. Row order follows the canonical key ordering so the same
// observations always produce the same tables.
func GraphFromRows(scope core.GraphScope, rows []core.GraphRow[core.NodeKey]) (core.Graph, error) {
	latest := make(map[string]core.GraphRow[core.NodeKey], len(rows))
	for _, row := range rows {
		latest[row.ID] = row
	}
	deduped := make([]core.GraphRow[core.NodeKey], 0, len(latest))
	for _, row := range latest {
		deduped = append(deduped, row)
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].Key.Compare(deduped[j].Key) < 0 })

	ids := make([]string, len(deduped))
	srcs := make([]string, len(deduped))
	sinks := make([]string, len(deduped))
	capacities := make([]int64, len(deduped))

	var names []string
	seen := make(map[string]struct{}, 2*len(deduped))
	addNode := func(key core.NodeKey) string {
		name := key.String()
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return name
	}

	for i, row := range deduped {
		ids[i] = row.ID
		srcs[i] = addNode(row.Key.Src)
		sinks[i] = addNode(row.Key.Sink)
		capacities[i] = int64(row.Value)
	}

	edges, err := frame.NewDataFrame(
		frame.NewStringSeries("id", ids),
		frame.NewStringSeries(v1alpha1.DefaultSrcColumn, srcs),
		frame.NewStringSeries(v1alpha1.DefaultSinkColumn, sinks),
		frame.NewInt64Series(v1alpha1.DefaultCapacityColumn, capacities),
	)
	if err != nil {
		return core.Graph{}, err
	}
	nodes, err := frame.NewDataFrame(
		frame.NewStringSeries(v1alpha1.DefaultNameColumn, names),
	)
	if err != nil {
		return core.Graph{}, err
	}

	return core.Graph{
		Scope: scope,
		Data: core.GraphData{
			Edges: edges.Lazy(),
			Nodes: nodes.Lazy(),
		},
	}, nil
}
