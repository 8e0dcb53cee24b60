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

// Package output defines renderers for the environment document.
//
// Each renderer package registers itself from init() with
// adapter.RegisterOutput and is selected at runtime with --format.
// The json renderer produces the import format; the others are for
// people or for other tools.
package output

import (
	"time"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// Adapter renders an environment document.
type Adapter interface {
	// Name is the identifier used with --format.
	Name() string

	// DisplayName is shown in listings.
	DisplayName() string

	// Extensions lists file extensions for the format, default first.
	Extensions() []string

	// Configure applies runtime configuration. It is called before Render.
	Configure(cfg Config) error

	// Render converts the document to the output format.
	Render(doc environment.Document, opts RenderOptions) ([]byte, error)
}

// Config holds adapter-specific configuration.
type Config struct {
	Enabled bool

	// Options holds adapter-specific values, such as "style".
	Options map[string]interface{}
}

// RenderOptions controls what a human-oriented renderer includes.
type RenderOptions struct {
	// IncludeMetadata adds a header with the generation time and counts.
	IncludeMetadata bool

	// Style selects an adapter-specific variant.
	Style string

	// CurrentURL marks the matching environment, when set.
	CurrentURL string

	// Now is the reference time for relative access times. Zero means
	// time.Now.
	Now time.Time
}

// DefaultRenderOptions returns the options used by the CLI.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{IncludeMetadata: true}
}

// Time returns o.Now, or the current time when unset.
func (o RenderOptions) Time() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}
