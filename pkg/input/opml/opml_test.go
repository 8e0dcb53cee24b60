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

package opml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/input"
)

const netscape = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000">Work</H3>
    <DL><p>
        <DT><A HREF="https://dev.service-now.com/" ADD_DATE="1700000000">Dev &amp; Test</A>
        <DT><H3>Clients</H3>
        <DL><p>
            <DT><A HREF="https://acme.service-now.com/">Acme</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://example.com/">Top</A>
</DL><p>
`

const outlines = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>ServiceNow environments</title></head>
  <body>
    <outline text="Clients">
      <outline text="Acme" type="link" url="https://acme.service-now.com/"/>
      <outline text="Feed" xmlUrl="https://feed.example.com/rss"/>
    </outline>
    <outline text="Dev" htmlUrl="https://dev.service-now.com/"/>
    <outline text="Empty"/>
  </body>
</opml>`

func TestParseHTML(t *testing.T) {
	got, err := ParseHTML(strings.NewReader(netscape))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Dev & Test", got[0].Title)
	assert.Equal(t, []string{"Work"}, got[0].FolderPath)
	assert.Equal(t, "https://acme.service-now.com/", got[1].URL)
	assert.Equal(t, []string{"Work", "Clients"}, got[1].FolderPath)
	assert.Empty(t, got[2].FolderPath)
	assert.Equal(t, "html", got[2].Source)
}

func TestParseOPML(t *testing.T) {
	got, err := ParseOPML([]byte(outlines))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Acme", got[0].Title)
	assert.Equal(t, []string{"Clients"}, got[0].FolderPath)
	assert.Equal(t, "https://feed.example.com/rss", got[1].URL)
	assert.Equal(t, "https://dev.service-now.com/", got[2].URL)
	assert.Empty(t, got[2].FolderPath)

	_, err = ParseOPML([]byte("<opml><body>"))
	assert.Error(t, err)
}

func TestRead_Sniffs(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"a.html": netscape, "b.opml": outlines} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		a := &Adapter{}
		require.NoError(t, a.Configure(input.Config{CustomPath: path}))
		assert.True(t, a.Available())
		got, err := a.Read(context.Background())
		require.NoError(t, err, name)
		assert.Len(t, got, 3, name)
	}

	_, err := (&Adapter{}).Read(context.Background())
	assert.ErrorIs(t, err, ErrNoFile)
}
