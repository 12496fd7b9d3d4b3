package frame

import "fmt"

// SchemaError reports an operation attempted on the Empty frame or against a
// column that does not satisfy the expected schema.
type SchemaError struct {
	// Op is the frame operation that failed.
	Op string
	// Column is the column involved, when known.
	Column string
	// Reason describes the violated constraint.
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Column != "" && e.Reason != "":
		return fmt.Sprintf("schema error in %s: column %q: %s", e.Op, e.Column, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("schema error in %s: column %q", e.Op, e.Column)
	default:
		return fmt.Sprintf("schema error in %s: %s", e.Op, e.Reason)
	}
}

// errEmpty builds the SchemaError raised by operations on the Empty sentinel.
func errEmpty(op string) *SchemaError {
	return &SchemaError{Op: op, Reason: "no backend configured (empty frame)"}
}

// BackendMismatchError reports two frame operands that originate from
// different concrete backends.
type BackendMismatchError struct {
	Op    string
	Left  Backend
	Right Backend
}

func (e *BackendMismatchError) Error() string {
	return fmt.Sprintf("backend mismatch in %s: %s vs %s", e.Op, e.Left, e.Right)
}
