package frame

import (
	"fmt"
	"strings"
)

// DataFrame is a materialized columnar table, the result of collecting a
// LazyFrame. Column order is significant and preserved by all operations.
type DataFrame struct {
	cols []*Series
}

// NewDataFrame builds a table from the given columns. All columns must have
// the same length and unique names.
func NewDataFrame(cols ...*Series) (*DataFrame, error) {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, dup := seen[c.Name()]; dup {
			return nil, &SchemaError{Op: "new", Column: c.Name(), Reason: "duplicate column"}
		}
		seen[c.Name()] = struct{}{}
		if c.Len() != cols[0].Len() {
			return nil, &SchemaError{
				Op:     "new",
				Column: c.Name(),
				Reason: fmt.Sprintf("length %d does not match %d", c.Len(), cols[0].Len()),
			}
		}
	}
	return &DataFrame{cols: cols}, nil
}

// NumRows returns the row count. An empty table has zero rows.
func (df *DataFrame) NumRows() int {
	if df == nil || len(df.cols) == 0 {
		return 0
	}
	return df.cols[0].Len()
}

// NumColumns returns the column count.
func (df *DataFrame) NumColumns() int {
	if df == nil {
		return 0
	}
	return len(df.cols)
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.cols))
	for i, c := range df.cols {
		names[i] = c.Name()
	}
	return names
}

// Column returns the named column, or false when absent.
func (df *DataFrame) Column(name string) (*Series, bool) {
	if df == nil {
		return nil, false
	}
	for _, c := range df.cols {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports whether the named column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.Column(name)
	return ok
}

// ColumnAt returns the column at position i.
func (df *DataFrame) ColumnAt(i int) *Series { return df.cols[i] }

// WithColumn returns a new table with the series appended, replacing any
// existing column of the same name in place.
func (df *DataFrame) WithColumn(s *Series) (*DataFrame, error) {
	if df.NumColumns() > 0 && s.Len() != df.NumRows() {
		return nil, &SchemaError{
			Op:     "with_column",
			Column: s.Name(),
			Reason: fmt.Sprintf("length %d does not match %d rows", s.Len(), df.NumRows()),
		}
	}
	out := make([]*Series, 0, len(df.cols)+1)
	replaced := false
	for _, c := range df.cols {
		if c.Name() == s.Name() {
			out = append(out, s)
			replaced = true
		} else {
			out = append(out, c)
		}
	}
	if !replaced {
		out = append(out, s)
	}
	return &DataFrame{cols: out}, nil
}

// Rename returns a new table with columns renamed per the mapping. Names
// absent from the table are ignored.
func (df *DataFrame) Rename(mapping map[string]string) *DataFrame {
	out := make([]*Series, len(df.cols))
	for i, c := range df.cols {
		if to, ok := mapping[c.Name()]; ok && to != c.Name() {
			out[i] = c.WithName(to)
		} else {
			out[i] = c
		}
	}
	return &DataFrame{cols: out}
}

// FilterRows returns a new table keeping only rows where mask is true.
func (df *DataFrame) FilterRows(mask *Series) (*DataFrame, error) {
	if mask.DType() != DTypeBool {
		return nil, &SchemaError{Op: "filter", Reason: "predicate did not evaluate to booleans"}
	}
	if mask.Len() != df.NumRows() {
		return nil, &SchemaError{
			Op:     "filter",
			Reason: fmt.Sprintf("predicate length %d does not match %d rows", mask.Len(), df.NumRows()),
		}
	}
	indices := make([]int, 0, mask.Len())
	for i := 0; i < mask.Len(); i++ {
		if mask.Bool(i) {
			indices = append(indices, i)
		}
	}
	out := make([]*Series, len(df.cols))
	for i, c := range df.cols {
		out[i] = c.Gather(indices)
	}
	return &DataFrame{cols: out}, nil
}

// CrossJoin returns the cartesian product of df (left) with other (right).
// Left rows vary slowest, matching the ordering the fabric operation relies on.
func (df *DataFrame) CrossJoin(other *DataFrame) (*DataFrame, error) {
	for _, c := range other.cols {
		if df.HasColumn(c.Name()) {
			return nil, &SchemaError{Op: "cross_join", Column: c.Name(), Reason: "column exists on both sides"}
		}
	}
	left, right := df.NumRows(), other.NumRows()
	out := make([]*Series, 0, len(df.cols)+len(other.cols))
	for _, c := range df.cols {
		out = append(out, c.RepeatEach(right))
	}
	for _, c := range other.cols {
		out = append(out, c.Repeat(left))
	}
	return &DataFrame{cols: out}, nil
}

// VStack appends other's rows below df. Schemas must match by name, dtype and
// column order.
func (df *DataFrame) VStack(other *DataFrame) (*DataFrame, error) {
	if df.NumColumns() != other.NumColumns() {
		return nil, &SchemaError{
			Op:     "concat",
			Reason: fmt.Sprintf("column count mismatch: %d vs %d", df.NumColumns(), other.NumColumns()),
		}
	}
	out := make([]*Series, len(df.cols))
	for i, c := range df.cols {
		o := other.cols[i]
		if c.Name() != o.Name() {
			return nil, &SchemaError{
				Op:     "concat",
				Column: c.Name(),
				Reason: fmt.Sprintf("column order mismatch: %q vs %q", c.Name(), o.Name()),
			}
		}
		merged, err := appendSeries(c, o)
		if err != nil {
			return nil, err
		}
		out[i] = merged
	}
	return &DataFrame{cols: out}, nil
}

// Equal reports whether two tables have identical schemas and values.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if df.NumColumns() != other.NumColumns() {
		return false
	}
	for i, c := range df.cols {
		if !c.Equal(other.cols[i]) {
			return false
		}
	}
	return true
}

// Lazy returns a deferred view over the table, backed by the in-memory engine.
// An empty table (no columns) lazies to the Empty sentinel.
func (df *DataFrame) Lazy() LazyFrame {
	if df == nil || len(df.cols) == 0 {
		return Empty
	}
	return &memFrame{src: df}
}

func (df *DataFrame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DataFrame[%d rows x %d columns]", df.NumRows(), df.NumColumns())
	if df.NumColumns() > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(df.Columns(), ", "))
	}
	return b.String()
}
