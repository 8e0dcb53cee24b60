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

// Package opml reads exported bookmark files: OPML outlines and the
// Netscape bookmark HTML that every browser can export.
package opml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
	"github.com/cloudygreybeard/envswitch/pkg/input"
)

const profileName = "import"

// ErrNoFile is returned by Read when no file was configured.
var ErrNoFile = errors.New("no file configured")

func init() {
	adapter.RegisterInput(&Adapter{})
}

// Adapter reads one exported file, chosen with CustomPath.
type Adapter struct {
	path string
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "file" }

// DisplayName returns a human-friendly name.
func (a *Adapter) DisplayName() string { return "Exported file (OPML or HTML)" }

// Available reports whether a file is configured.
func (a *Adapter) Available() bool { return a.path != "" }

// Path returns the configured file.
func (a *Adapter) Path() string { return a.path }

// Configure takes the file from CustomPath.
func (a *Adapter) Configure(cfg input.Config) error {
	a.path = cfg.CustomPath
	return nil
}

// ListProfiles returns nil; files have no profiles.
func (a *Adapter) ListProfiles() ([]input.ProfileInfo, error) {
	return nil, nil
}

// Read parses the configured file, sniffing its format.
func (a *Adapter) Read(ctx context.Context) ([]bookmark.Bookmark, error) {
	if a.path == "" {
		return nil, ErrNoFile
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if isOPML(data) {
		return ParseOPML(data)
	}
	return ParseHTML(bytes.NewReader(data))
}

func isOPML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<opml"))
}

type outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr"`
	URL      string    `xml:"url,attr"`
	HTMLURL  string    `xml:"htmlUrl,attr"`
	XMLURL   string    `xml:"xmlUrl,attr"`
	Children []outline `xml:"outline"`
}

// ParseOPML reads an OPML document. Outlines with children are folders;
// leaves take their address from url, htmlUrl or xmlUrl in that order.
func ParseOPML(data []byte) ([]bookmark.Bookmark, error) {
	var doc struct {
		XMLName xml.Name  `xml:"opml"`
		Body    []outline `xml:"body>outline"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing OPML: %w", err)
	}

	var out []bookmark.Bookmark
	var walk func(items []outline, folders []string)
	walk = func(items []outline, folders []string) {
		for _, o := range items {
			title := o.Text
			if title == "" {
				title = o.Title
			}
			if len(o.Children) > 0 {
				walk(o.Children, append(append([]string(nil), folders...), title))
				continue
			}
			addr := firstNonEmpty(o.URL, o.HTMLURL, o.XMLURL)
			if addr == "" {
				continue
			}
			out = append(out, bookmark.Bookmark{
				Title:      title,
				URL:        addr,
				FolderPath: folders,
				Source:     "opml",
				Profile:    profileName,
			})
		}
	}
	walk(doc.Body, nil)
	return out, nil
}

// ParseHTML reads a Netscape bookmark file. An <H3> names the folder whose
// contents are the next <DL>.
func ParseHTML(r io.Reader) ([]bookmark.Bookmark, error) {
	z := html.NewTokenizer(r)

	var (
		out     []bookmark.Bookmark
		stack   []string
		pending string
		text    strings.Builder
		inText  atom.Atom
		href    string
	)

	folders := func() []string {
		var path []string
		for _, name := range stack {
			if name != "" {
				path = append(path, name)
			}
		}
		return path
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("parsing HTML: %w", err)
			}
			return out, nil

		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Dl:
				stack = append(stack, pending)
				pending = ""
			case atom.H3, atom.A:
				inText = tok.DataAtom
				text.Reset()
				href = ""
				for _, attr := range tok.Attr {
					if attr.Key == "href" {
						href = attr.Val
					}
				}
			}

		case html.TextToken:
			if inText != 0 {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			tok := z.Token()
			switch {
			case tok.DataAtom == atom.Dl && len(stack) > 0:
				stack = stack[:len(stack)-1]
			case tok.DataAtom == atom.H3 && inText == atom.H3:
				pending = strings.TrimSpace(text.String())
				inText = 0
			case tok.DataAtom == atom.A && inText == atom.A:
				inText = 0
				if href == "" {
					continue
				}
				out = append(out, bookmark.Bookmark{
					Title:      strings.TrimSpace(text.String()),
					URL:        href,
					FolderPath: folders(),
					Source:     "html",
					Profile:    profileName,
				})
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
