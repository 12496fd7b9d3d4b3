package frame

import (
	"fmt"
	"math"
)

type exprKind int

const (
	exprCol exprKind = iota
	exprAll
	exprLit
	exprUnary
	exprBinary
)

type litKind int

const (
	litNumber litKind = iota
	litBool
	litString
)

type litValue struct {
	kind  litKind
	num   float64
	isInt bool
	b     bool
	s     string
}

// expr is the in-memory engine's LazySlice: a deferred column expression
// evaluated against a materialized table at collect time.
type expr struct {
	kind exprKind
	name string
	lit  litValue
	op   string
	lhs  *expr
	rhs  *expr
}

func colExpr(name string) *expr { return &expr{kind: exprCol, name: name} }
func allExpr() *expr            { return &expr{kind: exprAll} }

func litNumExpr(v float64) *expr {
	return &expr{kind: exprLit, lit: litValue{kind: litNumber, num: v, isInt: v == math.Trunc(v)}}
}

func litBoolExpr(v bool) *expr {
	return &expr{kind: exprLit, lit: litValue{kind: litBool, b: v}}
}

func (e *expr) Backend() Backend { return BackendMemory }

func (e *expr) unary(op string) LazySlice {
	return &expr{kind: exprUnary, op: op, lhs: e}
}

func (e *expr) binary(op string, rhs LazySlice) LazySlice {
	r, ok := rhs.(*expr)
	if !ok {
		// Operand from a foreign backend; surfaced as an error at collect time.
		return &expr{kind: exprBinary, op: op, lhs: e, rhs: nil}
	}
	return &expr{kind: exprBinary, op: op, lhs: e, rhs: r}
}

func (e *expr) Neg() LazySlice { return e.unary("neg") }
func (e *expr) Not() LazySlice { return e.unary("not") }

func (e *expr) Add(rhs LazySlice) LazySlice { return e.binary("add", rhs) }
func (e *expr) Sub(rhs LazySlice) LazySlice { return e.binary("sub", rhs) }
func (e *expr) Mul(rhs LazySlice) LazySlice { return e.binary("mul", rhs) }
func (e *expr) Div(rhs LazySlice) LazySlice { return e.binary("div", rhs) }
func (e *expr) Eq(rhs LazySlice) LazySlice  { return e.binary("eq", rhs) }
func (e *expr) Ne(rhs LazySlice) LazySlice  { return e.binary("ne", rhs) }
func (e *expr) Ge(rhs LazySlice) LazySlice  { return e.binary("ge", rhs) }
func (e *expr) Gt(rhs LazySlice) LazySlice  { return e.binary("gt", rhs) }
func (e *expr) Le(rhs LazySlice) LazySlice  { return e.binary("le", rhs) }
func (e *expr) Lt(rhs LazySlice) LazySlice  { return e.binary("lt", rhs) }
func (e *expr) And(rhs LazySlice) LazySlice { return e.binary("and", rhs) }
func (e *expr) Or(rhs LazySlice) LazySlice  { return e.binary("or", rhs) }

// eval resolves the expression against df, producing a series of df's row count.
func (e *expr) eval(df *DataFrame) (*Series, error) {
	switch e.kind {
	case exprCol:
		col, ok := df.Column(e.name)
		if !ok {
			return nil, &SchemaError{Op: "eval", Column: e.name, Reason: "no such column"}
		}
		return col, nil

	case exprAll:
		return nil, &SchemaError{Op: "eval", Reason: "all() cannot be evaluated as a single column"}

	case exprLit:
		return litSeries("literal", df.NumRows(), e.lit), nil

	case exprUnary:
		operand, err := e.lhs.eval(df)
		if err != nil {
			return nil, err
		}
		return evalUnary(e.op, operand)

	case exprBinary:
		if e.rhs == nil {
			return nil, &BackendMismatchError{Op: e.op, Left: BackendMemory, Right: BackendEmpty}
		}
		lhs, err := e.lhs.eval(df)
		if err != nil {
			return nil, err
		}
		rhs, err := e.rhs.eval(df)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.op, lhs, rhs)

	default:
		return nil, &SchemaError{Op: "eval", Reason: fmt.Sprintf("unknown expression kind %d", e.kind)}
	}
}

func evalUnary(op string, s *Series) (*Series, error) {
	switch op {
	case "neg":
		switch s.DType() {
		case DTypeInt64:
			out := make([]int64, s.Len())
			for i := range out {
				out[i] = -s.Int(i)
			}
			return NewInt64Series(s.Name(), out), nil
		case DTypeFloat64:
			out := make([]float64, s.Len())
			for i := range out {
				out[i] = -s.Float(i)
			}
			return NewFloat64Series(s.Name(), out), nil
		}
		return nil, &SchemaError{Op: "neg", Column: s.Name(), Reason: "not numeric"}

	case "not":
		if s.DType() != DTypeBool {
			return nil, &SchemaError{Op: "not", Column: s.Name(), Reason: "not boolean"}
		}
		out := make([]bool, s.Len())
		for i := range out {
			out[i] = !s.Bool(i)
		}
		return NewBoolSeries(s.Name(), out), nil

	default:
		return nil, &SchemaError{Op: op, Reason: "unknown unary operation"}
	}
}

func evalBinary(op string, lhs, rhs *Series) (*Series, error) {
	if lhs.Len() != rhs.Len() {
		return nil, &SchemaError{
			Op:     op,
			Reason: fmt.Sprintf("operand lengths differ: %d vs %d", lhs.Len(), rhs.Len()),
		}
	}
	n := lhs.Len()

	switch op {
	case "add", "sub", "mul":
		if lhs.DType() == DTypeInt64 && rhs.DType() == DTypeInt64 {
			out := make([]int64, n)
			for i := range out {
				a, b := lhs.Int(i), rhs.Int(i)
				switch op {
				case "add":
					out[i] = a + b
				case "sub":
					out[i] = a - b
				case "mul":
					out[i] = a * b
				}
			}
			return NewInt64Series(lhs.Name(), out), nil
		}
		a, b, err := numericOperands(op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i := range out {
			switch op {
			case "add":
				out[i] = a[i] + b[i]
			case "sub":
				out[i] = a[i] - b[i]
			case "mul":
				out[i] = a[i] * b[i]
			}
		}
		return NewFloat64Series(lhs.Name(), out), nil

	case "div":
		// Division always yields floats; integer truncation surprises hide
		// cost ratios.
		a, b, err := numericOperands(op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = a[i] / b[i]
		}
		return NewFloat64Series(lhs.Name(), out), nil

	case "eq", "ne", "ge", "gt", "le", "lt":
		return evalCompare(op, lhs, rhs)

	case "and", "or":
		if lhs.DType() != DTypeBool || rhs.DType() != DTypeBool {
			return nil, &SchemaError{Op: op, Reason: "operands are not boolean"}
		}
		out := make([]bool, n)
		for i := range out {
			if op == "and" {
				out[i] = lhs.Bool(i) && rhs.Bool(i)
			} else {
				out[i] = lhs.Bool(i) || rhs.Bool(i)
			}
		}
		return NewBoolSeries(lhs.Name(), out), nil

	default:
		return nil, &SchemaError{Op: op, Reason: "unknown binary operation"}
	}
}

func evalCompare(op string, lhs, rhs *Series) (*Series, error) {
	n := lhs.Len()
	out := make([]bool, n)

	if lhs.DType() == DTypeUtf8 || rhs.DType() == DTypeUtf8 {
		if lhs.DType() != DTypeUtf8 || rhs.DType() != DTypeUtf8 {
			return nil, &SchemaError{Op: op, Reason: "cannot compare strings with non-strings"}
		}
		for i := range out {
			switch op {
			case "eq":
				out[i] = lhs.Str(i) == rhs.Str(i)
			case "ne":
				out[i] = lhs.Str(i) != rhs.Str(i)
			case "ge":
				out[i] = lhs.Str(i) >= rhs.Str(i)
			case "gt":
				out[i] = lhs.Str(i) > rhs.Str(i)
			case "le":
				out[i] = lhs.Str(i) <= rhs.Str(i)
			case "lt":
				out[i] = lhs.Str(i) < rhs.Str(i)
			}
		}
		return NewBoolSeries(lhs.Name(), out), nil
	}

	a, b, err := numericOperands(op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	for i := range out {
		switch op {
		case "eq":
			out[i] = a[i] == b[i]
		case "ne":
			out[i] = a[i] != b[i]
		case "ge":
			out[i] = a[i] >= b[i]
		case "gt":
			out[i] = a[i] > b[i]
		case "le":
			out[i] = a[i] <= b[i]
		case "lt":
			out[i] = a[i] < b[i]
		}
	}
	return NewBoolSeries(lhs.Name(), out), nil
}

func numericOperands(op string, lhs, rhs *Series) ([]float64, []float64, error) {
	a, err := asFloats(op, lhs)
	if err != nil {
		return nil, nil, err
	}
	b, err := asFloats(op, rhs)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func asFloats(op string, s *Series) ([]float64, error) {
	out := make([]float64, s.Len())
	for i := range out {
		v, ok := s.Number(i)
		if !ok {
			return nil, &SchemaError{Op: op, Column: s.Name(), Reason: "not numeric"}
		}
		out[i] = v
	}
	return out, nil
}
