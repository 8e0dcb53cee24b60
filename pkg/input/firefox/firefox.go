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

// Package firefox reads bookmarks from a Firefox places.sqlite database.
package firefox

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
	"github.com/cloudygreybeard/envswitch/pkg/input"
)

var profileDirs = map[string]string{
	"linux":   ".mozilla/firefox",
	"darwin":  "Library/Application Support/Firefox/Profiles",
	"windows": "Mozilla/Firefox/Profiles",
}

// folderSep joins folder titles inside SQL; it cannot occur in a title.
const folderSep = "\x1f"

// bookmarksQuery walks each bookmark's parent chain up to the places root
// (id 1) and skips the tags tree (id 4).
const bookmarksQuery = `
WITH RECURSIVE chain(id, leaf, parent, path) AS (
    SELECT b.id, b.id, b.parent, ''
    FROM moz_bookmarks b
    WHERE b.type = 1
  UNION ALL
    SELECT f.id, c.leaf, f.parent,
           CASE WHEN COALESCE(f.title, '') = '' THEN c.path
                WHEN c.path = '' THEN f.title
                ELSE f.title || '` + folderSep + `' || c.path END
    FROM chain c
    JOIN moz_bookmarks f ON f.id = c.parent
    WHERE c.parent NOT IN (0, 1)
)
SELECT COALESCE(b.title, ''), p.url, c.path
FROM chain c
JOIN moz_bookmarks b ON b.id = c.leaf
JOIN moz_places p ON p.id = b.fk
WHERE c.parent IN (0, 1)
  AND c.id != 4
  AND p.url NOT LIKE 'place:%'
ORDER BY b.id`

func init() {
	adapter.RegisterInput(New())
}

// Adapter implements input.Adapter for Firefox.
type Adapter struct {
	config input.Config
	home   string
}

// New creates a Firefox adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "firefox" }

// DisplayName returns the browser's product name.
func (a *Adapter) DisplayName() string { return "Mozilla Firefox" }

// Available reports whether a places database was found.
func (a *Adapter) Available() bool {
	path, _ := a.database()
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

// Path returns the database that will be read.
func (a *Adapter) Path() string {
	path, _ := a.database()
	return path
}

// ListProfiles returns profile directories holding a places database.
func (a *Adapter) ListProfiles() ([]input.ProfileInfo, error) {
	dir := a.profilesDir()
	if dir == "" {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*", "places.sqlite"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	_, current := a.database()
	out := make([]input.ProfileInfo, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(filepath.Dir(m))
		out = append(out, input.ProfileInfo{Name: name, Path: m, IsDefault: name == current})
	}
	return out, nil
}

// Read returns every bookmark outside the tags tree. The database is copied
// first because a running Firefox keeps it locked.
func (a *Adapter) Read(ctx context.Context) ([]bookmark.Bookmark, error) {
	path, profile := a.database()
	if path == "" {
		return nil, nil
	}

	snapshot, err := copyToTemp(path)
	if err != nil {
		return nil, err
	}
	defer os.Remove(snapshot)

	db, err := sql.Open("sqlite3", "file:"+snapshot+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return readPlaces(ctx, db, profile)
}

func readPlaces(ctx context.Context, db *sql.DB, profile string) ([]bookmark.Bookmark, error) {
	rows, err := db.QueryContext(ctx, bookmarksQuery)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	var out []bookmark.Bookmark
	for rows.Next() {
		var title, url, path string
		if err := rows.Scan(&title, &url, &path); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}

		var folders []string
		if path != "" {
			folders = strings.Split(path, folderSep)
		}
		out = append(out, bookmark.Bookmark{
			Title:      title,
			URL:        url,
			FolderPath: folders,
			Source:     "firefox",
			Profile:    profile,
		})
	}
	return out, rows.Err()
}

func (a *Adapter) profilesDir() string {
	rel, ok := profileDirs[runtime.GOOS]
	if !ok {
		return ""
	}
	base := a.home
	if base == "" {
		if runtime.GOOS == "windows" {
			base = os.Getenv("APPDATA")
		} else {
			base, _ = os.UserHomeDir()
		}
	}
	return filepath.Join(base, rel)
}

// database returns the places path and its profile name.
func (a *Adapter) database() (string, string) {
	if a.config.CustomPath != "" {
		return a.config.CustomPath, filepath.Base(filepath.Dir(a.config.CustomPath))
	}

	dir := a.profilesDir()
	if dir == "" {
		return "", ""
	}
	if a.config.Profile != "" {
		return filepath.Join(dir, a.config.Profile, "places.sqlite"), a.config.Profile
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*", "places.sqlite"))
	if len(matches) == 0 {
		return "", ""
	}
	sort.Strings(matches)
	return matches[0], filepath.Base(filepath.Dir(matches[0]))
}

func copyToTemp(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "envswitch-places-*.sqlite")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
