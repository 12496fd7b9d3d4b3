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

// Package graphstore provides the GraphStore backends: a reference in-memory
// store and a durable BadgerDB store persisting graphs as Arrow IPC streams.
package graphstore

import (
	"context"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
)

// Memory is the reference in-memory GraphStore. A single reader/writer lock
// guards the whole scope map: concurrent reads proceed in parallel, writes are
// exclusive, and every accessor hands out snapshots rather than live aliases.
type Memory struct {
	mu     sync.RWMutex
	graphs map[core.GraphScope]core.Graph
	log    logr.Logger
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		graphs: make(map[core.GraphScope]core.Graph),
		log:    ctrl.Log.WithName("graphstore").WithName("memory"),
	}
}

// Get implements core.GraphStore.
func (m *Memory) Get(_ context.Context, scope core.GraphScope) (*core.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	graph, ok := m.graphs[scope]
	if !ok {
		return nil, nil
	}
	snapshot := graph
	return &snapshot, nil
}

// Insert implements core.GraphStore. The prior value for the scope, if any,
// is fully replaced under the write lock, so readers observe either the old
// graph or the new one, never a mixture.
func (m *Memory) Insert(_ context.Context, graph core.Graph) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.graphs[graph.Scope] = graph
	m.log.V(logging.DEBUG).Info("inserted graph", "scope", graph.Scope.String())
	return nil
}

// List implements core.GraphStore. Results are ordered by scope so iteration
// is deterministic across calls.
func (m *Memory) List(_ context.Context, filter *core.GraphFilter) ([]core.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scopes := make([]core.GraphScope, 0, len(m.graphs))
	for scope := range m.graphs {
		if filter.Contains(scope) {
			scopes = append(scopes, scope)
		}
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i].Compare(scopes[j]) < 0 })

	out := make([]core.Graph, 0, len(scopes))
	for _, scope := range scopes {
		out = append(out, m.graphs[scope])
	}
	return out, nil
}

// Close implements core.GraphStore. A no-op for the in-memory backend.
func (m *Memory) Close(context.Context) error {
	m.log.Info("closing in-memory graph store")
	return nil
}
