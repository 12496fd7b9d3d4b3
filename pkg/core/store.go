package core

import "context"

// GraphStore holds the latest graph per scope and serves concurrent readers
// and writers. Implementations must make Insert atomic per scope (a reader
// never observes a partially written graph) and keep Get/List linearizable
// with respect to completed Inserts on the same scope. A failed Insert leaves
// the prior value for that scope intact.
type GraphStore interface {
	// Get returns a snapshot of the current graph for the scope, or nil when
	// no graph is stored under it.
	Get(ctx context.Context, scope GraphScope) (*Graph, error)

	// Insert upserts by graph scope, fully replacing any prior value.
	Insert(ctx context.Context, graph Graph) error

	// List returns snapshots of all stored graphs whose scope satisfies the
	// filter; a nil filter returns all.
	List(ctx context.Context, filter *GraphFilter) ([]Graph, error)

	// Close releases backend resources. Safe to call once at shutdown; a
	// no-op for pure in-memory backends, a flush point for durable ones.
	Close(ctx context.Context) error
}

// ScopedGraphStore is a store handle bound to a single scope, handed to
// runners so an executed graph can only ever be written back under the scope
// it was solved for.
type ScopedGraphStore interface {
	Scope() GraphScope
	Insert(ctx context.Context, data GraphData) error
}
