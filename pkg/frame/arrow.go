package frame

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

// Record converts the table into an Arrow record batch. The caller owns the
// returned record and must Release it.
func (df *DataFrame) Record(mem memory.Allocator) (arrow.Record, error) {
	fields := make([]arrow.Field, df.NumColumns())
	for i := 0; i < df.NumColumns(); i++ {
		c := df.ColumnAt(i)
		var ty arrow.DataType
		switch c.DType() {
		case DTypeInt64:
			ty = arrow.PrimitiveTypes.Int64
		case DTypeFloat64:
			ty = arrow.PrimitiveTypes.Float64
		case DTypeUtf8:
			ty = arrow.BinaryTypes.String
		case DTypeBool:
			ty = arrow.FixedWidthTypes.Boolean
		default:
			return nil, &SchemaError{Op: "record", Column: c.Name(), Reason: "unsupported dtype"}
		}
		fields[i] = arrow.Field{Name: c.Name(), Type: ty}
	}

	schema := arrow.NewSchema(fields, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i := 0; i < df.NumColumns(); i++ {
		c := df.ColumnAt(i)
		switch c.DType() {
		case DTypeInt64:
			b.Field(i).(*array.Int64Builder).AppendValues(c.Int64Values(), nil)
		case DTypeFloat64:
			b.Field(i).(*array.Float64Builder).AppendValues(c.Float64Values(), nil)
		case DTypeUtf8:
			b.Field(i).(*array.StringBuilder).AppendValues(c.StringValues(), nil)
		case DTypeBool:
			b.Field(i).(*array.BooleanBuilder).AppendValues(c.BoolValues(), nil)
		}
	}
	return b.NewRecord(), nil
}

// FromRecord converts an Arrow record batch into a DataFrame.
func FromRecord(rec arrow.Record) (*DataFrame, error) {
	cols := make([]*Series, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		name := rec.Schema().Field(i).Name
		switch arr := rec.Column(i).(type) {
		case *array.Int64:
			cols[i] = NewInt64Series(name, append([]int64{}, arr.Int64Values()...))
		case *array.Float64:
			cols[i] = NewFloat64Series(name, append([]float64{}, arr.Float64Values()...))
		case *array.String:
			vals := make([]string, arr.Len())
			for j := range vals {
				vals[j] = arr.Value(j)
			}
			cols[i] = NewStringSeries(name, vals)
		case *array.Boolean:
			vals := make([]bool, arr.Len())
			for j := range vals {
				vals[j] = arr.Value(j)
			}
			cols[i] = NewBoolSeries(name, vals)
		default:
			return nil, &SchemaError{
				Op:     "from_record",
				Column: name,
				Reason: fmt.Sprintf("unsupported arrow type %s", rec.Column(i).DataType()),
			}
		}
	}
	return NewDataFrame(cols...)
}

// MarshalIPC serializes the table as an Arrow IPC stream. An empty table
// serializes to nil.
func (df *DataFrame) MarshalIPC() ([]byte, error) {
	if df.NumColumns() == 0 {
		return nil, nil
	}
	rec, err := df.Record(memory.DefaultAllocator)
	if err != nil {
		return nil, err
	}
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(rec.Schema()))
	if err := w.Write(rec); err != nil {
		return nil, fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close arrow writer: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalIPC deserializes an Arrow IPC stream produced by MarshalIPC.
func UnmarshalIPC(b []byte) (*DataFrame, error) {
	if len(b) == 0 {
		return &DataFrame{}, nil
	}
	r, err := ipc.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to open arrow reader: %w", err)
	}
	defer r.Release()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("failed to read arrow record: %w", err)
		}
		return &DataFrame{}, nil
	}
	return FromRecord(r.Record())
}
