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

// Package chromium reads the JSON Bookmarks file of Chromium-based browsers.
package chromium

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
	"github.com/cloudygreybeard/envswitch/pkg/input"
)

type browserInfo struct {
	display string
	dirs    map[string]string
}

// browsers maps adapter names to their user data directory per platform.
var browsers = map[string]browserInfo{
	"chrome": {"Google Chrome", map[string]string{
		"linux":   ".config/google-chrome",
		"darwin":  "Library/Application Support/Google/Chrome",
		"windows": "Google/Chrome/User Data",
	}},
	"edge": {"Microsoft Edge", map[string]string{
		"linux":   ".config/microsoft-edge",
		"darwin":  "Library/Application Support/Microsoft Edge",
		"windows": "Microsoft/Edge/User Data",
	}},
	"chromium": {"Chromium", map[string]string{
		"linux":   ".config/chromium",
		"darwin":  "Library/Application Support/Chromium",
		"windows": "Chromium/User Data",
	}},
	"brave": {"Brave", map[string]string{
		"linux":   ".config/BraveSoftware/Brave-Browser",
		"darwin":  "Library/Application Support/BraveSoftware/Brave-Browser",
		"windows": "BraveSoftware/Brave-Browser/User Data",
	}},
}

func init() {
	for name := range browsers {
		adapter.RegisterInput(New(name))
	}
}

// Adapter implements input.Adapter for one Chromium-based browser.
type Adapter struct {
	browser string
	config  input.Config
	home    string
}

// New creates an adapter for the named browser.
func New(browser string) *Adapter {
	return &Adapter{browser: browser}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return a.browser }

// DisplayName returns the browser's product name.
func (a *Adapter) DisplayName() string {
	if info, ok := browsers[a.browser]; ok {
		return info.display
	}
	return a.browser
}

// Available reports whether a Bookmarks file exists.
func (a *Adapter) Available() bool {
	if a.config.CustomPath != "" {
		_, err := os.Stat(a.config.CustomPath)
		return err == nil
	}
	return len(a.profiles()) > 0
}

// Configure applies configuration to the adapter.
func (a *Adapter) Configure(cfg input.Config) error {
	a.config = cfg
	return nil
}

// Path returns the user data directory or the custom file.
func (a *Adapter) Path() string {
	if a.config.CustomPath != "" {
		return a.config.CustomPath
	}
	return a.userDataDir()
}

// ListProfiles returns the profiles that have a Bookmarks file.
func (a *Adapter) ListProfiles() ([]input.ProfileInfo, error) {
	return a.profiles(), nil
}

// Read returns the bookmarks of the configured profile, or of every
// profile when none is set. Unreadable profiles are skipped.
func (a *Adapter) Read(ctx context.Context) ([]bookmark.Bookmark, error) {
	if a.config.CustomPath != "" {
		return a.readFile(a.config.CustomPath, "custom")
	}

	var all []bookmark.Bookmark
	for _, p := range a.profiles() {
		if a.config.Profile != "" && p.Name != a.config.Profile {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := a.readFile(p.Path, p.Name)
		if err != nil {
			logging.Debug(a.browser, "skipping profile %s: %v", p.Name, err)
			continue
		}
		all = append(all, found...)
	}
	return all, nil
}

func (a *Adapter) userDataDir() string {
	info, ok := browsers[a.browser]
	if !ok {
		return ""
	}
	rel, ok := info.dirs[runtime.GOOS]
	if !ok {
		return ""
	}

	base := a.home
	if base == "" {
		if runtime.GOOS == "windows" {
			base = os.Getenv("LOCALAPPDATA")
		} else {
			base, _ = os.UserHomeDir()
		}
	}
	return filepath.Join(base, rel)
}

func (a *Adapter) profiles() []input.ProfileInfo {
	dir := a.userDataDir()
	if dir == "" {
		return nil
	}

	var paths []string
	for _, pattern := range []string{"Default", "Profile *"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern, "Bookmarks"))
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	out := make([]input.ProfileInfo, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(filepath.Dir(p))
		out = append(out, input.ProfileInfo{Name: name, Path: p, IsDefault: name == "Default"})
	}
	return out
}

type node struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Children []node `json:"children"`
}

func (a *Adapter) readFile(path, profile string) ([]bookmark.Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Roots map[string]node `json:"roots"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Map order is random; keep roots stable so first-wins dedupe is too.
	names := make([]string, 0, len(file.Roots))
	for name := range file.Roots {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []bookmark.Bookmark
	for _, name := range names {
		out = a.walk(file.Roots[name], nil, profile, out)
	}
	return out, nil
}

func (a *Adapter) walk(n node, folders []string, profile string, out []bookmark.Bookmark) []bookmark.Bookmark {
	switch n.Type {
	case "url":
		return append(out, bookmark.Bookmark{
			Title:      n.Name,
			URL:        n.URL,
			FolderPath: folders,
			Source:     a.browser,
			Profile:    profile,
		})
	case "folder":
		path := folders
		if n.Name != "" {
			path = append(append([]string(nil), folders...), n.Name)
		}
		for _, child := range n.Children {
			out = a.walk(child, path, profile, out)
		}
	}
	return out
}
