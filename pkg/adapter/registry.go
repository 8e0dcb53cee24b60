// Copyright 2026 cloudygreybeard
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package adapter is the registry for bookmark sources and document
// renderers.
package adapter

import (
	"sort"
	"sync"

	"github.com/cloudygreybeard/envswitch/pkg/input"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

type registry[T interface{ Name() string }] struct {
	mu    sync.RWMutex
	items map[string]T
}

func (r *registry[T]) register(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = make(map[string]T)
	}
	r.items[item.Name()] = item
}

func (r *registry[T]) get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[name]
	return item, ok
}

// all returns the registered items sorted by name.
func (r *registry[T]) all() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func names[T interface{ Name() string }](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name()
	}
	return out
}

var (
	inputs  registry[input.Adapter]
	outputs registry[output.Adapter]
)

// RegisterInput registers a bookmark source.
func RegisterInput(a input.Adapter) { inputs.register(a) }

// RegisterOutput registers a renderer.
func RegisterOutput(a output.Adapter) { outputs.register(a) }

// GetInput returns a bookmark source by name.
func GetInput(name string) (input.Adapter, bool) { return inputs.get(name) }

// GetOutput returns a renderer by name.
func GetOutput(name string) (output.Adapter, bool) { return outputs.get(name) }

// ListInputs returns the registered source names in order.
func ListInputs() []string { return names(inputs.all()) }

// ListOutputs returns the registered renderer names in order.
func ListOutputs() []string { return names(outputs.all()) }

// AllInputs returns every registered source, sorted by name.
func AllInputs() []input.Adapter { return inputs.all() }

// AllOutputs returns every registered renderer, sorted by name.
func AllOutputs() []output.Adapter { return outputs.all() }

// AvailableInputs returns the sources that can currently be read.
func AvailableInputs() []input.Adapter {
	var out []input.Adapter
	for _, a := range inputs.all() {
		if a.Available() {
			out = append(out, a)
		}
	}
	return out
}

// OutputFor returns the renderer whose extensions include ext.
func OutputFor(ext string) (output.Adapter, bool) {
	for _, a := range outputs.all() {
		for _, e := range a.Extensions() {
			if e == ext {
				return a, true
			}
		}
	}
	return nil, false
}
