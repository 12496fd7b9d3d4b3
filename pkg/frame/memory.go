package frame

import (
	"context"
)

// memOp is one deferred step of an in-memory plan.
type memOp func(ctx context.Context, df *DataFrame) (*DataFrame, error)

// memFrame is the in-memory engine: a source table plus a list of deferred
// operations applied at collect time.
type memFrame struct {
	src *DataFrame
	ops []memOp
}

// with returns a new plan extending the receiver by one operation. The shared
// prefix of ops is never mutated, so derived plans stay independent.
func (f *memFrame) with(op memOp) *memFrame {
	ops := make([]memOp, len(f.ops), len(f.ops)+1)
	copy(ops, f.ops)
	return &memFrame{src: f.src, ops: append(ops, op)}
}

func (f *memFrame) Backend() Backend { return BackendMemory }

func (f *memFrame) All() (LazySlice, error) {
	return allExpr(), nil
}

func (f *memFrame) GetColumn(name string) (LazySlice, error) {
	return colExpr(name), nil
}

func (f *memFrame) Cast(mapping ColumnMapping) LazyFrame {
	// Copy the mapping: the plan may outlive the caller's map.
	renames := make(map[string]string, len(mapping))
	for from, to := range mapping {
		renames[from] = to
	}

	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		return df.Rename(renames), nil
	})
}

func (f *memFrame) Collect(ctx context.Context) (*DataFrame, error) {
	df := f.src
	for _, op := range f.ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := op(ctx, df)
		if err != nil {
			return nil, err
		}
		df = next
	}
	return df, nil
}

func (f *memFrame) Concat(other LazyFrame) (LazyFrame, error) {
	if IsEmpty(other) {
		return f, nil
	}
	if other.Backend() != BackendMemory {
		return nil, &BackendMismatchError{Op: "concat", Left: BackendMemory, Right: other.Backend()}
	}
	return f.with(func(ctx context.Context, df *DataFrame) (*DataFrame, error) {
		odf, err := other.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return df.VStack(odf)
	}), nil
}

func (f *memFrame) Fabric(spec FabricSpec) (LazyFrame, error) {
	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		if !df.HasColumn(spec.NameColumn) {
			return nil, &SchemaError{Op: "fabric", Column: spec.NameColumn, Reason: "no such column"}
		}
		src, err := fabricSide(df, spec.NameColumn, spec.SrcColumn)
		if err != nil {
			return nil, err
		}
		sink, err := fabricSide(df, spec.NameColumn, spec.SinkColumn)
		if err != nil {
			return nil, err
		}
		edges, err := src.CrossJoin(sink)
		if err != nil {
			return nil, err
		}
		capacity := litSeries(spec.CapacityColumn, edges.NumRows(), litValue{
			kind:  litNumber,
			num:   float64(spec.Capacity),
			isInt: true,
		})
		return edges.WithColumn(capacity)
	}), nil
}

// fabricSide projects the node table into one side of the edge relation: the
// name column takes the side's name, every other column gets a "side." prefix.
func fabricSide(nodes *DataFrame, nameColumn, side string) (*DataFrame, error) {
	cols := make([]*Series, 0, nodes.NumColumns())
	for i := 0; i < nodes.NumColumns(); i++ {
		c := nodes.ColumnAt(i)
		if c.Name() == nameColumn {
			cols = append(cols, c.WithName(side))
		} else {
			cols = append(cols, c.WithName(side+"."+c.Name()))
		}
	}
	return NewDataFrame(cols...)
}

func (f *memFrame) Alias(key string, fn FunctionMetadata) (LazyFrame, error) {
	name := fn.Name
	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		col := litSeries(key, df.NumRows(), litValue{kind: litString, s: name})
		return df.WithColumn(col)
	}), nil
}

func (f *memFrame) InsertColumn(name string, column LazySlice) (LazyFrame, error) {
	e, ok := column.(*expr)
	if !ok {
		return nil, &BackendMismatchError{Op: "insert_column", Left: BackendMemory, Right: column.Backend()}
	}
	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		s, err := e.eval(df)
		if err != nil {
			return nil, err
		}
		return df.WithColumn(s.WithName(name))
	}), nil
}

func (f *memFrame) ApplyFilter(predicate LazySlice) (LazyFrame, error) {
	e, ok := predicate.(*expr)
	if !ok {
		return nil, &BackendMismatchError{Op: "apply_filter", Left: BackendMemory, Right: predicate.Backend()}
	}
	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		mask, err := e.eval(df)
		if err != nil {
			return nil, err
		}
		return df.FilterRows(mask)
	}), nil
}

func (f *memFrame) FillColumnWithFeature(name string, value Feature) (LazyFrame, error) {
	v := bool(value)
	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		return df.WithColumn(litSeries(name, df.NumRows(), litValue{kind: litBool, b: v}))
	}), nil
}

func (f *memFrame) FillColumnWithValue(name string, value Number) (LazyFrame, error) {
	v := float64(value)
	return f.with(func(_ context.Context, df *DataFrame) (*DataFrame, error) {
		lit := litValue{kind: litNumber, num: v, isInt: float64(int64(v)) == v}
		return df.WithColumn(litSeries(name, df.NumRows(), lit))
	}), nil
}
