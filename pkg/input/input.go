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

// Package input defines the bookmark sources used to discover environments.
//
// Each adapter package registers itself from init() with
// adapter.RegisterInput and is linked in by a blank import in cmd/root.go.
package input

import (
	"context"

	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
)

// Adapter reads bookmarks from one source.
type Adapter interface {
	// Name is the identifier used in configuration and flags.
	Name() string

	// DisplayName is shown in listings.
	DisplayName() string

	// Available reports whether the source can be read. It must not
	// perform network I/O.
	Available() bool

	// Path describes what is read, for logs and listings.
	Path() string

	// Configure applies runtime configuration. It is called before Read.
	Configure(cfg Config) error

	// ListProfiles returns the profiles of the source, or nil when the
	// source has none.
	ListProfiles() ([]ProfileInfo, error)

	// Read returns every bookmark of the configured profile, or of all
	// profiles when none is set.
	Read(ctx context.Context) ([]bookmark.Bookmark, error)
}

// Config holds adapter configuration.
type Config struct {
	Enabled bool

	// Profile selects one profile. Empty reads all of them.
	Profile string

	// CustomPath overrides the default location.
	CustomPath string
}

// ProfileInfo describes one profile of a source.
type ProfileInfo struct {
	Name      string
	Path      string
	IsDefault bool
}
