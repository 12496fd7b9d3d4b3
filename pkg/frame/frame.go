// Package frame provides the deferred columnar compute plan shared by every
// stage of the optimization pipeline.
//
// A LazyFrame is a plan over rows that commits to an execution engine only at
// Collect time. The package ships two variants: the Empty sentinel, which
// stands for "no backend configured" and fails loudly on every operation that
// would otherwise hide missing data, and an in-memory columnar engine. All
// plan-building operations are pure and synchronous; Collect is the single
// suspension point.
package frame

import "context"

// Backend identifies the execution engine behind a frame or slice.
type Backend string

const (
	// BackendEmpty marks the no-backend sentinel.
	BackendEmpty Backend = "empty"
	// BackendMemory marks the in-memory columnar engine.
	BackendMemory Backend = "memory"
)

// ColumnMapping maps origin column names onto target column names, used by
// Cast to re-type a frame from a declared metadata schema onto the standard one.
type ColumnMapping map[string]string

// FunctionMetadata tags the provenance of rows produced by a pipeline stage.
type FunctionMetadata struct {
	Name string
}

// FabricSpec parameterizes the fabric operation: the column holding node
// identity, the src/sink twin names to produce, and the capacity column to
// stamp onto every synthesized edge.
type FabricSpec struct {
	NameColumn     string
	SrcColumn      string
	SinkColumn     string
	CapacityColumn string

	// Capacity is the literal filled into the capacity column. Callers pass
	// the problem ceiling so that node-level constraints stay the only
	// binding limit on synthesized edges.
	Capacity int64
}

// LazyFrame is a deferred columnar computation. Plan builders return a new
// frame and never mutate the receiver, so frames are safe to share across
// goroutines. Every operation except Concat, Cast and Collect fails on the
// Empty sentinel.
type LazyFrame interface {
	// Backend identifies the engine this plan executes on.
	Backend() Backend

	// All returns a slice selecting every column.
	All() (LazySlice, error)

	// GetColumn returns a slice selecting the named column.
	GetColumn(name string) (LazySlice, error)

	// Cast renames origin metadata columns onto their standard names.
	// A no-op on Empty.
	Cast(mapping ColumnMapping) LazyFrame

	// Collect materializes the plan. Empty collects to an empty table.
	Collect(ctx context.Context) (*DataFrame, error)

	// Concat unions two frames of the same backend. Empty is the identity
	// element of this operation.
	Concat(other LazyFrame) (LazyFrame, error)

	// Fabric builds the complete relation of a node set against itself: one
	// row per (src, sink) pair, including self-pairs, with the shared name
	// column split into src/sink twins and remaining node columns prefixed
	// by side.
	Fabric(spec FabricSpec) (LazyFrame, error)

	// Alias adds a literal column tagging the function that produced the rows.
	Alias(key string, fn FunctionMetadata) (LazyFrame, error)

	// InsertColumn adds (or replaces) a column computed from the slice.
	InsertColumn(name string, column LazySlice) (LazyFrame, error)

	// ApplyFilter keeps only the rows where the predicate slice is true.
	ApplyFilter(predicate LazySlice) (LazyFrame, error)

	// FillColumnWithFeature fills a column with a boolean literal.
	FillColumnWithFeature(name string, value Feature) (LazyFrame, error)

	// FillColumnWithValue fills a column with a numeric literal.
	FillColumnWithValue(name string, value Number) (LazyFrame, error)
}

// LazySlice is a deferred column expression bound to a backend. The algebra
// mirrors the operations the pipeline composes predicates and derived columns
// from; operands must share a backend.
type LazySlice interface {
	Backend() Backend

	Neg() LazySlice
	Not() LazySlice

	Add(rhs LazySlice) LazySlice
	Sub(rhs LazySlice) LazySlice
	Mul(rhs LazySlice) LazySlice
	Div(rhs LazySlice) LazySlice

	Eq(rhs LazySlice) LazySlice
	Ne(rhs LazySlice) LazySlice
	Ge(rhs LazySlice) LazySlice
	Gt(rhs LazySlice) LazySlice
	Le(rhs LazySlice) LazySlice
	Lt(rhs LazySlice) LazySlice

	And(rhs LazySlice) LazySlice
	Or(rhs LazySlice) LazySlice
}

// Number is a numeric literal convertible to a LazySlice.
type Number float64

// Feature is a boolean literal convertible to a LazySlice.
type Feature bool

// IntoLazySlice lifts the literal into a slice on the frame's backend.
func (n Number) IntoLazySlice(f LazyFrame) (LazySlice, error) {
	switch f.Backend() {
	case BackendMemory:
		return litNumExpr(float64(n)), nil
	default:
		return nil, errEmpty("lit")
	}
}

// IntoLazySlice lifts the literal into a slice on the frame's backend.
func (b Feature) IntoLazySlice(f LazyFrame) (LazySlice, error) {
	switch f.Backend() {
	case BackendMemory:
		return litBoolExpr(bool(b)), nil
	default:
		return nil, errEmpty("lit")
	}
}

// Empty is the no-backend sentinel frame. It is the identity element of
// Concat, collects to an empty table, and fails on everything else so that a
// missing backend can never masquerade as "no data".
var Empty LazyFrame = emptyFrame{}

// IsEmpty reports whether the frame is the Empty sentinel (or nil).
func IsEmpty(f LazyFrame) bool {
	return f == nil || f.Backend() == BackendEmpty
}

type emptyFrame struct{}

func (emptyFrame) Backend() Backend { return BackendEmpty }

func (emptyFrame) All() (LazySlice, error) {
	return nil, errEmpty("all")
}

func (emptyFrame) GetColumn(name string) (LazySlice, error) {
	return nil, &SchemaError{Op: "get_column", Column: name, Reason: "no backend configured (empty frame)"}
}

func (e emptyFrame) Cast(ColumnMapping) LazyFrame { return e }

func (emptyFrame) Collect(context.Context) (*DataFrame, error) {
	return &DataFrame{}, nil
}

func (emptyFrame) Concat(other LazyFrame) (LazyFrame, error) {
	if other == nil {
		return Empty, nil
	}
	return other, nil
}

func (emptyFrame) Fabric(FabricSpec) (LazyFrame, error) {
	return nil, errEmpty("fabric")
}

func (emptyFrame) Alias(key string, _ FunctionMetadata) (LazyFrame, error) {
	return nil, &SchemaError{Op: "alias", Column: key, Reason: "no backend configured (empty frame)"}
}

func (emptyFrame) InsertColumn(name string, _ LazySlice) (LazyFrame, error) {
	return nil, &SchemaError{Op: "insert_column", Column: name, Reason: "no backend configured (empty frame)"}
}

func (emptyFrame) ApplyFilter(LazySlice) (LazyFrame, error) {
	return nil, errEmpty("apply_filter")
}

func (emptyFrame) FillColumnWithFeature(name string, _ Feature) (LazyFrame, error) {
	return nil, &SchemaError{Op: "fill_column_with_feature", Column: name, Reason: "no backend configured (empty frame)"}
}

func (emptyFrame) FillColumnWithValue(name string, _ Number) (LazyFrame, error) {
	return nil, &SchemaError{Op: "fill_column_with_value", Column: name, Reason: "no backend configured (empty frame)"}
}
