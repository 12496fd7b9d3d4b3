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

package graphstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// keyPrefix namespaces graph entries so future record kinds can share the DB.
const keyPrefix = "graph/"

// BadgerConfig parameterizes the durable store backend.
type BadgerConfig struct {
	// Path is the on-disk location of the database. Ignored when InMemory.
	Path string

	// InMemory runs BadgerDB without touching disk. Used by tests and by
	// deployments that only want crash-consistent semantics within a run.
	InMemory bool
}

// Badger is the durable GraphStore. Each graph is collected eagerly on Insert
// and persisted as Arrow IPC streams inside a JSON envelope, one key per
// scope, written in a single transaction.
type Badger struct {
	db  *badger.DB
	log logr.Logger
}

// persistedGraph is the stored envelope. Nodes and Edges hold Arrow IPC
// bytes; nil means the corresponding side was empty.
type persistedGraph struct {
	Scope core.GraphScope `json:"scope"`
	Nodes []byte          `json:"nodes,omitempty"`
	Edges []byte          `json:"edges,omitempty"`
}

// NewBadger opens (or creates) the database at the configured path.
func NewBadger(cfg BadgerConfig) (*Badger, error) {
	log := ctrl.Log.WithName("graphstore").WithName("badger")

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph database at %q: %w", cfg.Path, err)
	}

	log.Info("opened graph database", "path", cfg.Path, "inMemory", cfg.InMemory)
	return &Badger{db: db, log: log}, nil
}

func scopeKey(scope core.GraphScope) []byte {
	return []byte(keyPrefix + scope.String())
}

// Get implements core.GraphStore.
func (b *Badger) Get(ctx context.Context, scope core.GraphScope) (*core.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(scopeKey(scope))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.StoreError{Op: "get", Scope: scope, Err: err}
	}

	graph, err := decodeGraph(payload)
	if err != nil {
		return nil, &core.StoreError{Op: "get", Scope: scope, Err: err}
	}
	return graph, nil
}

// Insert implements core.GraphStore. The lazy plans are collected before the
// write so a plan failure never leaves a partial record behind.
func (b *Badger) Insert(ctx context.Context, graph core.Graph) error {
	nodes, err := encodeFrame(ctx, graph.Data.Nodes)
	if err != nil {
		return &core.StoreError{Op: "insert", Scope: graph.Scope, Err: err}
	}
	edges, err := encodeFrame(ctx, graph.Data.Edges)
	if err != nil {
		return &core.StoreError{Op: "insert", Scope: graph.Scope, Err: err}
	}

	payload, err := json.Marshal(persistedGraph{Scope: graph.Scope, Nodes: nodes, Edges: edges})
	if err != nil {
		return &core.StoreError{Op: "insert", Scope: graph.Scope, Err: err}
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(scopeKey(graph.Scope), payload)
	})
	if err != nil {
		return &core.StoreError{Op: "insert", Scope: graph.Scope, Err: err}
	}

	b.log.V(logging.DEBUG).Info("persisted graph",
		"scope", graph.Scope.String(), "bytes", len(payload))
	return nil
}

// List implements core.GraphStore. Results are ordered by scope.
func (b *Badger) List(ctx context.Context, filter *core.GraphFilter) ([]core.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []core.Graph
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			payload, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			graph, err := decodeGraph(payload)
			if err != nil {
				return err
			}
			if filter.Contains(graph.Scope) {
				out = append(out, *graph)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &core.StoreError{Op: "list", Err: err}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Scope.Compare(out[j].Scope) < 0 })
	return out, nil
}

// Close implements core.GraphStore, flushing and closing the database.
func (b *Badger) Close(context.Context) error {
	b.log.Info("closing graph database")
	if err := b.db.Close(); err != nil {
		return &core.StoreError{Op: "close", Err: err}
	}
	return nil
}

func encodeFrame(ctx context.Context, f frame.LazyFrame) ([]byte, error) {
	if frame.IsEmpty(f) {
		return nil, nil
	}
	df, err := f.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return df.MarshalIPC()
}

func decodeGraph(payload []byte) (*core.Graph, error) {
	var p persistedGraph
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	nodes, err := decodeFrame(p.Nodes)
	if err != nil {
		return nil, err
	}
	edges, err := decodeFrame(p.Edges)
	if err != nil {
		return nil, err
	}
	return &core.Graph{
		Scope: p.Scope,
		Data:  core.GraphData{Nodes: nodes, Edges: edges},
	}, nil
}

func decodeFrame(b []byte) (frame.LazyFrame, error) {
	if len(b) == 0 {
		return frame.Empty, nil
	}
	df, err := frame.UnmarshalIPC(b)
	if err != nil {
		return nil, err
	}
	return df.Lazy(), nil
}
