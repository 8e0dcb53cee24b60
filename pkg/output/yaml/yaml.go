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

// Package yaml renders the environment document as YAML.
package yaml

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

func init() {
	adapter.RegisterOutput(New())
}

// Adapter implements output.Adapter for YAML.
type Adapter struct {
	config output.Config
}

// New creates a YAML adapter.
func New() *Adapter { return &Adapter{} }

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "yaml" }

// DisplayName returns a human-friendly name.
func (a *Adapter) DisplayName() string { return "YAML" }

// Extensions returns supported file extensions.
func (a *Adapter) Extensions() []string { return []string{".yaml", ".yml"} }

// Configure applies configuration to the adapter.
func (a *Adapter) Configure(cfg output.Config) error {
	a.config = cfg
	return nil
}

// Render writes the document with two-space indentation. Metadata goes in
// a leading comment so the body stays a plain document.
func (a *Adapter) Render(doc environment.Document, opts output.RenderOptions) ([]byte, error) {
	if doc.Environments == nil {
		doc.Environments = []environment.Record{}
	}
	if doc.Groups == nil {
		doc.Groups = []string{}
	}

	var buf bytes.Buffer
	if opts.IncludeMetadata {
		fmt.Fprintf(&buf, "# Generated: %s\n", opts.Time().Format(time.RFC3339))
		fmt.Fprintf(&buf, "# Environments: %d, groups: %d\n", len(doc.Environments), len(doc.Groups))
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
