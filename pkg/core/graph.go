// Package core provides the domain model of the cluster flow optimizer: node
// and edge identities, content-addressed graph rows, graph scopes, and the
// store contract shared by every backend.
package core

import (
	"fmt"
	"strings"

	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// GraphScope names one logical graph instance, e.g. one cluster view. At most
// one graph is stored per scope at any time.
type GraphScope struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

func (s GraphScope) String() string {
	return fmt.Sprintf("%s/%s/%s", s.Kind, s.Namespace, s.Name)
}

// Compare orders scopes lexicographically on (kind, namespace, name).
func (s GraphScope) Compare(other GraphScope) int {
	if c := strings.Compare(s.Kind, other.Kind); c != 0 {
		return c
	}
	if c := strings.Compare(s.Namespace, other.Namespace); c != 0 {
		return c
	}
	return strings.Compare(s.Name, other.Name)
}

// GraphFilter is a predicate over scope fields. Empty fields match anything;
// the filter never inspects graph content.
type GraphFilter struct {
	Kind      string
	Namespace string
	Name      string
}

// Contains reports whether the scope satisfies the filter. A nil filter
// matches every scope.
func (f *GraphFilter) Contains(s GraphScope) bool {
	if f == nil {
		return true
	}
	if f.Kind != "" && f.Kind != s.Kind {
		return false
	}
	if f.Namespace != "" && f.Namespace != s.Namespace {
		return false
	}
	if f.Name != "" && f.Name != s.Name {
		return false
	}
	return true
}

// GraphData pairs the two frames a flow network is made of.
type GraphData struct {
	Edges frame.LazyFrame
	Nodes frame.LazyFrame
}

// Graph is one scoped network. Frames are immutable plans, so copying the
// struct is a safe snapshot: no caller ever holds a live alias into
// store-internal state.
type Graph struct {
	Scope GraphScope
	Data  GraphData
}
