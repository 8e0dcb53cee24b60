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

// Package json renders the environment document in its import format.
package json

import (
	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

func init() {
	adapter.RegisterOutput(New())
}

// Adapter implements output.Adapter for the JSON document.
type Adapter struct{}

// New creates a JSON adapter.
func New() *Adapter { return &Adapter{} }

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "json" }

// DisplayName returns a human-friendly name.
func (a *Adapter) DisplayName() string { return "JSON (import format)" }

// Extensions returns supported file extensions.
func (a *Adapter) Extensions() []string { return []string{".json"} }

// Configure is a no-op; the format has no variants.
func (a *Adapter) Configure(cfg output.Config) error { return nil }

// Render returns the document exactly as Export writes it, so the result
// can be imported again. Render options are ignored.
func (a *Adapter) Render(doc environment.Document, _ output.RenderOptions) ([]byte, error) {
	return doc.Marshal()
}
