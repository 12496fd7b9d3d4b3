package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphScopeOrdering(t *testing.T) {
	scopes := []GraphScope{
		{Kind: "cluster", Namespace: "prod", Name: "b"},
		{Kind: "cluster", Namespace: "dev", Name: "z"},
		{Kind: "app", Namespace: "prod", Name: "a"},
		{Kind: "cluster", Namespace: "prod", Name: "a"},
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i].Compare(scopes[j]) < 0 })

	want := []GraphScope{
		{Kind: "app", Namespace: "prod", Name: "a"},
		{Kind: "cluster", Namespace: "dev", Name: "z"},
		{Kind: "cluster", Namespace: "prod", Name: "a"},
		{Kind: "cluster", Namespace: "prod", Name: "b"},
	}
	assert.Equal(t, want, scopes)
}

func TestGraphFilterContains(t *testing.T) {
	scope := GraphScope{Kind: "cluster", Namespace: "prod", Name: "main"}

	tests := []struct {
		name   string
		filter *GraphFilter
		want   bool
	}{
		{"nil filter matches all", nil, true},
		{"empty filter matches all", &GraphFilter{}, true},
		{"kind match", &GraphFilter{Kind: "cluster"}, true},
		{"kind mismatch", &GraphFilter{Kind: "app"}, false},
		{"full match", &GraphFilter{Kind: "cluster", Namespace: "prod", Name: "main"}, true},
		{"name mismatch", &GraphFilter{Kind: "cluster", Name: "other"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Contains(scope))
		})
	}
}

func TestNodeKeyString(t *testing.T) {
	key := NodeKey{Kind: "node", Name: "a", Namespace: "default"}
	assert.Equal(t, "node/default/a", key.String())
}

func TestNodeNameKeyedEdge(t *testing.T) {
	key := EdgeKey[NodeName]{IntervalMS: 1, Link: "l", Sink: "b", Src: "a"}
	b, err := key.CanonicalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `{"le":1,"link_name":"l","sink_name":"b","src_name":"a"}`, string(b))
}
