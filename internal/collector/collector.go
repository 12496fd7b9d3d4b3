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

package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ulagbulag-village/noah-cloud/internal/logging"
	"github.com/ulagbulag-village/noah-cloud/pkg/core"
)

// Collector drives registered sources and upserts the resulting graphs into
// the store. A failing source never blocks the others.
type Collector struct {
	store core.GraphStore
	log   logr.Logger

	mu      sync.Mutex
	sources []GraphSource
}

// New creates a collector writing into the given store.
func New(store core.GraphStore) *Collector {
	return &Collector{
		store: store,
		log:   ctrl.Log.WithName("collector"),
	}
}

// Register adds a source. Safe to call concurrently with Run.
func (c *Collector) Register(source GraphSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, source)
	c.log.Info("registered graph source",
		"source", source.Name(),
		"scope", source.Scope().String(),
		"interval", source.CollectionInterval())
}

func (c *Collector) snapshot() []GraphSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GraphSource, len(c.sources))
	copy(out, c.sources)
	return out
}

// RunOnce collects every registered source a single time. The first failure
// is returned, but all sources are attempted.
func (c *Collector) RunOnce(ctx context.Context) error {
	var firstErr error
	for _, source := range c.snapshot() {
		if err := c.collect(ctx, source); err != nil {
			c.log.Error(err, "collection failed", "source", source.Name())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Run collects each source on its own interval until the context is
// cancelled. Collection failures are logged and retried on the next tick.
func (c *Collector) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, source := range c.snapshot() {
		wg.Add(1)
		go func(source GraphSource) {
			defer wg.Done()
			ticker := time.NewTicker(source.CollectionInterval())
			defer ticker.Stop()

			for {
				if err := c.collect(ctx, source); err != nil && ctx.Err() == nil {
					c.log.Error(err, "collection failed", "source", source.Name())
				}
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}(source)
	}
	wg.Wait()
	return ctx.Err()
}

func (c *Collector) collect(ctx context.Context, source GraphSource) error {
	rows, err := source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("source %q: %w", source.Name(), err)
	}
	if len(rows) == 0 {
		c.log.V(logging.DEBUG).Info("source observed nothing", "source", source.Name())
		return nil
	}

	graph, err := GraphFromRows(source.Scope(), rows)
	if err != nil {
		return fmt.Errorf("source %q: %w", source.Name(), err)
	}
	if err := c.store.Insert(ctx, graph); err != nil {
		return fmt.Errorf("source %q: %w", source.Name(), err)
	}

	c.log.V(logging.DEBUG).Info("collected graph",
		"source", source.Name(),
		"scope", source.Scope().String(),
		"rows", len(rows))
	return nil
}
