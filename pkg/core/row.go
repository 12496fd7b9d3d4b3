package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GraphRow is one content-addressed edge observation. The id is a pure
// function of the key's canonical serialization: identical keys always
// produce identical ids regardless of process, insertion order or time, which
// makes rows idempotently upsertable by content. Rows are immutable once
// constructed.
type GraphRow[K Node[K]] struct {
	ID    string
	Key   EdgeKey[K]
	Value EdgeValue
}

// NewGraphRow builds a row, deriving the id as hex(SHA-256(canonical key)).
func NewGraphRow[K Node[K]](key EdgeKey[K], value EdgeValue) (GraphRow[K], error) {
	canonical, err := key.CanonicalJSON()
	if err != nil {
		return GraphRow[K]{}, fmt.Errorf("failed to serialize edge key: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return GraphRow[K]{
		ID:    hex.EncodeToString(sum[:]),
		Key:   key,
		Value: value,
	}, nil
}

// MarshalJSON renders the row in its wire format: a flat record with id, the
// flattened key fields, and value.
func (r GraphRow[K]) MarshalJSON() ([]byte, error) {
	fields := make([]CanonicalField, 0, 12)
	fields = append(fields, CanonicalField{Key: "id", Value: r.ID})
	fields = append(fields, r.Key.canonicalFields()...)
	fields = append(fields, CanonicalField{Key: "value", Value: uint64(r.Value)})
	return marshalFields(fields)
}

// wireRow is the flat wire form of a row keyed by resolved node identities.
type wireRow struct {
	ID         string `json:"id"`
	IntervalMS uint64 `json:"le"`

	LinkKind      string `json:"link_kind"`
	LinkName      string `json:"link_name"`
	LinkNamespace string `json:"link_namespace"`

	SinkKind      string `json:"sink_kind"`
	SinkName      string `json:"sink_name"`
	SinkNamespace string `json:"sink_namespace"`

	SrcKind      string `json:"src_kind"`
	SrcName      string `json:"src_name"`
	SrcNamespace string `json:"src_namespace"`

	Value uint64 `json:"value"`
}

// ParseRow decodes a wire-format record into a row keyed by NodeKey. The
// content address is recomputed from the key; when the record carries an id it
// must match, so corrupted or tampered rows are rejected at the boundary.
func ParseRow(data []byte) (GraphRow[NodeKey], error) {
	var w wireRow
	if err := json.Unmarshal(data, &w); err != nil {
		return GraphRow[NodeKey]{}, fmt.Errorf("failed to decode graph row: %w", err)
	}

	key := EdgeKey[NodeKey]{
		IntervalMS: w.IntervalMS,
		Link:       NodeKey{Kind: w.LinkKind, Name: w.LinkName, Namespace: w.LinkNamespace},
		Sink:       NodeKey{Kind: w.SinkKind, Name: w.SinkName, Namespace: w.SinkNamespace},
		Src:        NodeKey{Kind: w.SrcKind, Name: w.SrcName, Namespace: w.SrcNamespace},
	}
	row, err := NewGraphRow(key, EdgeValue(w.Value))
	if err != nil {
		return GraphRow[NodeKey]{}, err
	}
	if w.ID != "" && w.ID != row.ID {
		return GraphRow[NodeKey]{}, fmt.Errorf("content address mismatch: got %s, derived %s", w.ID, row.ID)
	}
	return row, nil
}
