package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EdgeValue is the non-negative weight observed on an edge, e.g. a traffic count.
type EdgeValue uint64

// EdgeKey identifies one observed edge of the flow network. It is
// parameterized over the node-key type so the same structure can key either
// raw node names or resolved node identities.
//
// The serialized form flattens the three node keys under role prefixes
// (link_, sink_, src_) so that rows stay collision-free when flattened into a
// single flat record.
type EdgeKey[K Node[K]] struct {
	IntervalMS uint64
	Link       K
	Sink       K
	Src        K
}

// Compare orders edge keys on (interval, link, sink, src).
func (k EdgeKey[K]) Compare(other EdgeKey[K]) int {
	switch {
	case k.IntervalMS < other.IntervalMS:
		return -1
	case k.IntervalMS > other.IntervalMS:
		return 1
	}
	if c := k.Link.Compare(other.Link); c != 0 {
		return c
	}
	if c := k.Sink.Compare(other.Sink); c != 0 {
		return c
	}
	return k.Src.Compare(other.Src)
}

// canonicalFields returns the flat field list of the key in frozen order:
// le, link_*, sink_*, src_*. This order is the canonical serialization the
// content address is derived from and must never change.
func (k EdgeKey[K]) canonicalFields() []CanonicalField {
	fields := make([]CanonicalField, 0, 10)
	fields = append(fields, CanonicalField{Key: "le", Value: k.IntervalMS})
	fields = append(fields, k.Link.CanonicalFields("link_")...)
	fields = append(fields, k.Sink.CanonicalFields("sink_")...)
	fields = append(fields, k.Src.CanonicalFields("src_")...)
	return fields
}

// CanonicalJSON renders the key as a flat JSON object with frozen field order.
func (k EdgeKey[K]) CanonicalJSON() ([]byte, error) {
	return marshalFields(k.canonicalFields())
}

// MarshalJSON serializes the key in its canonical flat form.
func (k EdgeKey[K]) MarshalJSON() ([]byte, error) {
	return k.CanonicalJSON()
}

// marshalFields writes an ordered JSON object; encoding/json is used per
// value so strings are escaped consistently.
func marshalFields(fields []CanonicalField) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field name %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", f.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
