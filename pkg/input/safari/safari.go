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

// Package safari reads Safari's Bookmarks.plist.
package safari

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"howett.net/plist"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
	"github.com/cloudygreybeard/envswitch/pkg/input"
)

const profileName = "default"

func init() {
	adapter.RegisterInput(New())
}

// Adapter implements input.Adapter for Safari. Without a custom path it is
// only available on macOS.
type Adapter struct {
	config input.Config
}

// New creates a Safari adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "safari" }

// DisplayName returns the browser's product name.
func (a *Adapter) DisplayName() string { return "Apple Safari" }

// Available reports whether the plist exists.
func (a *Adapter) Available() bool {
	path := a.Path()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Configure applies configuration to the adapter.
func (a *Adapter) Configure(cfg input.Config) error {
	a.config = cfg
	return nil
}

// Path returns the plist that will be read.
func (a *Adapter) Path() string {
	if a.config.CustomPath != "" {
		return a.config.CustomPath
	}
	if runtime.GOOS != "darwin" {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Safari", "Bookmarks.plist")
}

// ListProfiles returns the single Safari profile.
func (a *Adapter) ListProfiles() ([]input.ProfileInfo, error) {
	if !a.Available() {
		return nil, nil
	}
	return []input.ProfileInfo{{Name: profileName, Path: a.Path(), IsDefault: true}}, nil
}

// Read returns every leaf bookmark. Reading List entries are included.
func (a *Adapter) Read(ctx context.Context) ([]bookmark.Bookmark, error) {
	path := a.Path()
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root entry
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root.collect(nil, nil), nil
}

type entry struct {
	Type     string            `plist:"WebBookmarkType"`
	Title    string            `plist:"Title,omitempty"`
	URL      string            `plist:"URLString,omitempty"`
	URIDict  map[string]string `plist:"URIDictionary,omitempty"`
	Children []entry           `plist:"Children,omitempty"`
}

func (e entry) collect(folders []string, out []bookmark.Bookmark) []bookmark.Bookmark {
	if e.Type == "WebBookmarkTypeLeaf" {
		if e.URL == "" {
			return out
		}
		title := e.URIDict["title"]
		if title == "" {
			title = e.Title
		}
		return append(out, bookmark.Bookmark{
			Title:      title,
			URL:        e.URL,
			FolderPath: folders,
			Source:     "safari",
			Profile:    profileName,
		})
	}

	// The unnamed root list and proxies do not add a folder level.
	if e.Type == "WebBookmarkTypeList" && e.Title != "" {
		folders = append(append([]string(nil), folders...), e.Title)
	}
	for _, child := range e.Children {
		out = child.collect(folders, out)
	}
	return out
}
