/*
Copyright 2025 The noah-cloud Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package graphstore

import (
	"context"

	"github.com/ulagbulag-village/noah-cloud/pkg/core"
)

// Scoped binds a GraphStore to one scope. Runners receive this view so an
// executed graph can only be written back under the scope it was solved for.
type Scoped struct {
	store core.GraphStore
	scope core.GraphScope
}

// NewScoped wraps the store with a fixed scope.
func NewScoped(store core.GraphStore, scope core.GraphScope) *Scoped {
	return &Scoped{store: store, scope: scope}
}

// Scope implements core.ScopedGraphStore.
func (s *Scoped) Scope() core.GraphScope { return s.scope }

// Insert implements core.ScopedGraphStore.
func (s *Scoped) Insert(ctx context.Context, data core.GraphData) error {
	return s.store.Insert(ctx, core.Graph{Scope: s.scope, Data: data})
}
