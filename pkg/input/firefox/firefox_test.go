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

package firefox

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/input"
)

const schema = `
CREATE TABLE moz_places (id INTEGER PRIMARY KEY, url TEXT);
CREATE TABLE moz_bookmarks (id INTEGER PRIMARY KEY, type INTEGER, fk INTEGER, parent INTEGER, title TEXT);

INSERT INTO moz_bookmarks VALUES (1, 2, NULL, 0, '');
INSERT INTO moz_bookmarks VALUES (3, 2, NULL, 1, 'toolbar');
INSERT INTO moz_bookmarks VALUES (4, 2, NULL, 1, 'tags');
INSERT INTO moz_bookmarks VALUES (10, 2, NULL, 3, 'Clients');

INSERT INTO moz_places VALUES (1, 'https://dev.service-now.com/');
INSERT INTO moz_places VALUES (2, 'https://acme.service-now.com/');
INSERT INTO moz_places VALUES (3, 'place:tag=work');

INSERT INTO moz_bookmarks VALUES (20, 1, 1, 3, 'Dev');
INSERT INTO moz_bookmarks VALUES (21, 1, 2, 10, 'Acme');
INSERT INTO moz_bookmarks VALUES (22, 1, 1, 4, NULL);
INSERT INTO moz_bookmarks VALUES (23, 1, 3, 3, 'Smart');
`

func writePlaces(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(schema)
	require.NoError(t, err)
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abcd.default-release", "places.sqlite")
	require.NoError(t, mkdirFor(path))
	writePlaces(t, path)

	a := New()
	require.NoError(t, a.Configure(input.Config{CustomPath: path}))
	require.True(t, a.Available())

	got, err := a.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Dev", got[0].Title)
	assert.Equal(t, []string{"toolbar"}, got[0].FolderPath)
	assert.Equal(t, "Acme", got[1].Title)
	assert.Equal(t, []string{"toolbar", "Clients"}, got[1].FolderPath)
	assert.Equal(t, "abcd.default-release", got[1].Profile)
	assert.Equal(t, "firefox", got[1].Source)
}

func TestProfiles(t *testing.T) {
	home := t.TempDir()
	a := New()
	a.home = home
	dir := a.profilesDir()
	if dir == "" {
		t.Skip("no firefox path for this platform")
	}
	for _, p := range []string{"b.work", "a.default"} {
		path := filepath.Join(dir, p, "places.sqlite")
		require.NoError(t, mkdirFor(path))
		writePlaces(t, path)
	}

	profiles, err := a.ListProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "a.default", profiles[0].Name)
	assert.True(t, profiles[0].IsDefault)

	require.NoError(t, a.Configure(input.Config{Profile: "b.work"}))
	got, err := a.Read(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "b.work", got[0].Profile)
}

func mkdirFor(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
