package frame

import (
	"fmt"
	"strconv"
)

// DType enumerates the column types supported by the in-memory engine.
type DType int

const (
	DTypeInt64 DType = iota
	DTypeFloat64
	DTypeUtf8
	DTypeBool
)

func (t DType) String() string {
	switch t {
	case DTypeInt64:
		return "int64"
	case DTypeFloat64:
		return "float64"
	case DTypeUtf8:
		return "utf8"
	case DTypeBool:
		return "bool"
	default:
		return fmt.Sprintf("dtype(%d)", int(t))
	}
}

// Series is a single named, typed column of a materialized DataFrame.
// A Series is immutable once constructed; transformations allocate new values.
type Series struct {
	name  string
	dtype DType

	ints   []int64
	floats []float64
	strs   []string
	bools  []bool
}

func NewInt64Series(name string, values []int64) *Series {
	return &Series{name: name, dtype: DTypeInt64, ints: values}
}

func NewFloat64Series(name string, values []float64) *Series {
	return &Series{name: name, dtype: DTypeFloat64, floats: values}
}

func NewStringSeries(name string, values []string) *Series {
	return &Series{name: name, dtype: DTypeUtf8, strs: values}
}

func NewBoolSeries(name string, values []bool) *Series {
	return &Series{name: name, dtype: DTypeBool, bools: values}
}

func (s *Series) Name() string { return s.name }
func (s *Series) DType() DType { return s.dtype }

func (s *Series) Len() int {
	switch s.dtype {
	case DTypeInt64:
		return len(s.ints)
	case DTypeFloat64:
		return len(s.floats)
	case DTypeUtf8:
		return len(s.strs)
	case DTypeBool:
		return len(s.bools)
	default:
		return 0
	}
}

// WithName returns a copy of the series under a new name.
func (s *Series) WithName(name string) *Series {
	out := *s
	out.name = name
	return &out
}

func (s *Series) Int(i int) int64     { return s.ints[i] }
func (s *Series) Float(i int) float64 { return s.floats[i] }
func (s *Series) Str(i int) string    { return s.strs[i] }
func (s *Series) Bool(i int) bool     { return s.bools[i] }

// Int64Values returns the backing int64 slice. Valid only for DTypeInt64.
func (s *Series) Int64Values() []int64 { return s.ints }

// Float64Values returns the backing float64 slice. Valid only for DTypeFloat64.
func (s *Series) Float64Values() []float64 { return s.floats }

// StringValues returns the backing string slice. Valid only for DTypeUtf8.
func (s *Series) StringValues() []string { return s.strs }

// BoolValues returns the backing bool slice. Valid only for DTypeBool.
func (s *Series) BoolValues() []bool { return s.bools }

// Number returns the value at i as a float64. The second result reports
// whether the series holds numeric data.
func (s *Series) Number(i int) (float64, bool) {
	switch s.dtype {
	case DTypeInt64:
		return float64(s.ints[i]), true
	case DTypeFloat64:
		return s.floats[i], true
	default:
		return 0, false
	}
}

// ValueString renders the value at i as a string, independent of dtype.
// Used where node identity columns may hold either names or numeric ids.
func (s *Series) ValueString(i int) string {
	switch s.dtype {
	case DTypeInt64:
		return strconv.FormatInt(s.ints[i], 10)
	case DTypeFloat64:
		return strconv.FormatFloat(s.floats[i], 'g', -1, 64)
	case DTypeUtf8:
		return s.strs[i]
	case DTypeBool:
		return strconv.FormatBool(s.bools[i])
	default:
		return ""
	}
}

// Gather returns a new series holding the values at the given row indices.
func (s *Series) Gather(indices []int) *Series {
	out := &Series{name: s.name, dtype: s.dtype}
	switch s.dtype {
	case DTypeInt64:
		out.ints = make([]int64, len(indices))
		for i, idx := range indices {
			out.ints[i] = s.ints[idx]
		}
	case DTypeFloat64:
		out.floats = make([]float64, len(indices))
		for i, idx := range indices {
			out.floats[i] = s.floats[idx]
		}
	case DTypeUtf8:
		out.strs = make([]string, len(indices))
		for i, idx := range indices {
			out.strs[i] = s.strs[idx]
		}
	case DTypeBool:
		out.bools = make([]bool, len(indices))
		for i, idx := range indices {
			out.bools[i] = s.bools[idx]
		}
	}
	return out
}

// Repeat returns a new series of length n*count where the original values are
// repeated count times back to back.
func (s *Series) Repeat(count int) *Series {
	n := s.Len()
	indices := make([]int, 0, n*count)
	for c := 0; c < count; c++ {
		for i := 0; i < n; i++ {
			indices = append(indices, i)
		}
	}
	return s.Gather(indices)
}

// RepeatEach returns a new series of length n*count where each value is
// repeated count times before moving to the next.
func (s *Series) RepeatEach(count int) *Series {
	n := s.Len()
	indices := make([]int, 0, n*count)
	for i := 0; i < n; i++ {
		for c := 0; c < count; c++ {
			indices = append(indices, i)
		}
	}
	return s.Gather(indices)
}

// appendSeries concatenates other onto s. Both must share name and dtype.
func appendSeries(s, other *Series) (*Series, error) {
	if s.dtype != other.dtype {
		return nil, &SchemaError{
			Op:     "concat",
			Column: s.name,
			Reason: fmt.Sprintf("dtype mismatch: %s vs %s", s.dtype, other.dtype),
		}
	}
	out := &Series{name: s.name, dtype: s.dtype}
	switch s.dtype {
	case DTypeInt64:
		out.ints = append(append([]int64{}, s.ints...), other.ints...)
	case DTypeFloat64:
		out.floats = append(append([]float64{}, s.floats...), other.floats...)
	case DTypeUtf8:
		out.strs = append(append([]string{}, s.strs...), other.strs...)
	case DTypeBool:
		out.bools = append(append([]bool{}, s.bools...), other.bools...)
	}
	return out, nil
}

// Equal reports whether two series have the same name, dtype and values.
func (s *Series) Equal(other *Series) bool {
	if s.name != other.name || s.dtype != other.dtype || s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		switch s.dtype {
		case DTypeInt64:
			if s.ints[i] != other.ints[i] {
				return false
			}
		case DTypeFloat64:
			if s.floats[i] != other.floats[i] {
				return false
			}
		case DTypeUtf8:
			if s.strs[i] != other.strs[i] {
				return false
			}
		case DTypeBool:
			if s.bools[i] != other.bools[i] {
				return false
			}
		}
	}
	return true
}

// litSeries builds a constant series of length n from a literal expression value.
func litSeries(name string, n int, v litValue) *Series {
	switch v.kind {
	case litNumber:
		if v.isInt {
			vals := make([]int64, n)
			for i := range vals {
				vals[i] = int64(v.num)
			}
			return NewInt64Series(name, vals)
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = v.num
		}
		return NewFloat64Series(name, vals)
	case litBool:
		vals := make([]bool, n)
		for i := range vals {
			vals[i] = v.b
		}
		return NewBoolSeries(name, vals)
	case litString:
		vals := make([]string, n)
		for i := range vals {
			vals[i] = v.s
		}
		return NewStringSeries(name, vals)
	default:
		return NewInt64Series(name, make([]int64, n))
	}
}
