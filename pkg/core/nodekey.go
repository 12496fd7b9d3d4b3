package core

import (
	"fmt"
	"strings"
)

// CanonicalField is one key/value pair of a node key's canonical, role-prefixed
// serialization.
type CanonicalField struct {
	Key   string
	Value any
}

// Node constrains the key type an EdgeKey can be parameterized over: a total
// order plus a stable serialization under a role prefix. Both are required for
// deterministic storage iteration and content addressing.
type Node[K any] interface {
	// Compare returns -1, 0 or 1 ordering the receiver against other.
	Compare(other K) int

	// CanonicalFields returns the key's fields in frozen order, each field
	// name carrying the given role prefix (e.g. "src_").
	CanonicalFields(prefix string) []CanonicalField
}

// NodeKey identifies a resource node in the cluster graph.
type NodeKey struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// Compare orders node keys lexicographically on (kind, name, namespace).
func (k NodeKey) Compare(other NodeKey) int {
	if c := strings.Compare(k.Kind, other.Kind); c != 0 {
		return c
	}
	if c := strings.Compare(k.Name, other.Name); c != 0 {
		return c
	}
	return strings.Compare(k.Namespace, other.Namespace)
}

// CanonicalFields implements Node. Field order is frozen: kind, name, namespace.
func (k NodeKey) CanonicalFields(prefix string) []CanonicalField {
	return []CanonicalField{
		{Key: prefix + "kind", Value: k.Kind},
		{Key: prefix + "name", Value: k.Name},
		{Key: prefix + "namespace", Value: k.Namespace},
	}
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Kind, k.Namespace, k.Name)
}

// NodeName keys an edge by a bare node name, before observations are resolved
// into full node identities.
type NodeName string

// Compare orders node names lexicographically.
func (n NodeName) Compare(other NodeName) int {
	return strings.Compare(string(n), string(other))
}

// CanonicalFields implements Node.
func (n NodeName) CanonicalFields(prefix string) []CanonicalField {
	return []CanonicalField{{Key: prefix + "name", Value: string(n)}}
}

func (n NodeName) String() string { return string(n) }
