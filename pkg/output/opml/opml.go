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

// Package opml renders the environment document as OPML 2.0 and as a
// Netscape bookmark file. Both put each group in a folder, so the result
// can be imported into a browser or read back by discover.
package opml

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

const title = "ServiceNow Environments"

func init() {
	adapter.RegisterOutput(&OPMLAdapter{})
	adapter.RegisterOutput(&HTMLAdapter{})
}

// folder is one group and its environments, in stored order. The
// ungrouped folder has an empty name.
type folder struct {
	name    string
	records []environment.Record
}

// folders splits the document into groups in sequence order followed by
// the ungrouped records. Records naming an unknown group are ungrouped.
func folders(doc environment.Document) []folder {
	index := make(map[string]int, len(doc.Groups))
	out := make([]folder, 0, len(doc.Groups)+1)
	for _, g := range doc.Groups {
		index[g] = len(out)
		out = append(out, folder{name: g})
	}
	loose := folder{}
	for _, r := range doc.Environments {
		if i, ok := index[r.Group]; ok && r.Group != "" {
			out[i].records = append(out[i].records, r)
			continue
		}
		loose.records = append(loose.records, r)
	}
	return append(out, loose)
}

// OPMLAdapter renders OPML 2.0.
type OPMLAdapter struct{}

// Name returns the adapter identifier.
func (a *OPMLAdapter) Name() string { return "opml" }

// DisplayName returns a human-friendly name.
func (a *OPMLAdapter) DisplayName() string { return "OPML" }

// Extensions returns supported file extensions.
func (a *OPMLAdapter) Extensions() []string { return []string{".opml", ".xml"} }

// Configure is a no-op.
func (a *OPMLAdapter) Configure(cfg output.Config) error { return nil }

type opmlDoc struct {
	XMLName xml.Name  `xml:"opml"`
	Version string    `xml:"version,attr"`
	Title   string    `xml:"head>title"`
	Created string    `xml:"head>dateCreated,omitempty"`
	Body    []outline `xml:"body>outline"`
}

type outline struct {
	Text     string    `xml:"text,attr"`
	Type     string    `xml:"type,attr,omitempty"`
	URL      string    `xml:"url,attr,omitempty"`
	Category string    `xml:"category,attr,omitempty"`
	Children []outline `xml:"outline"`
}

// Render writes one outline per group holding link outlines. The color is
// kept in the category attribute.
func (a *OPMLAdapter) Render(doc environment.Document, opts output.RenderOptions) ([]byte, error) {
	out := opmlDoc{Version: "2.0", Title: title}
	if opts.IncludeMetadata {
		out.Created = opts.Time().UTC().Format(time.RFC1123)
	}

	for _, f := range folders(doc) {
		links := make([]outline, 0, len(f.records))
		for _, r := range f.records {
			links = append(links, outline{Text: r.Name, Type: "link", URL: r.URL, Category: r.Color})
		}
		if f.name == "" {
			out.Body = append(out.Body, links...)
			continue
		}
		out.Body = append(out.Body, outline{Text: f.name, Children: links})
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding OPML: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// HTMLAdapter renders a Netscape bookmark file.
type HTMLAdapter struct{}

// Name returns the adapter identifier.
func (a *HTMLAdapter) Name() string { return "html" }

// DisplayName returns a human-friendly name.
func (a *HTMLAdapter) DisplayName() string { return "Netscape bookmark HTML" }

// Extensions returns supported file extensions.
func (a *HTMLAdapter) Extensions() []string { return []string{".html", ".htm"} }

// Configure is a no-op.
func (a *HTMLAdapter) Configure(cfg output.Config) error { return nil }

// Render writes a bookmark file with a folder per group. Ungrouped
// environments follow the folders at the top level.
func (a *HTMLAdapter) Render(doc environment.Document, opts output.RenderOptions) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	sb.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(&sb, "<TITLE>%s</TITLE>\n<H1>%s</H1>\n<DL><p>\n", title, title)

	stamp := ""
	if opts.IncludeMetadata {
		stamp = fmt.Sprintf(" ADD_DATE=\"%d\"", opts.Time().Unix())
	}

	link := func(indent string, r environment.Record) {
		fmt.Fprintf(&sb, "%s<DT><A HREF=\"%s\"%s>%s</A>\n",
			indent, html.EscapeString(r.URL), stamp, html.EscapeString(r.Name))
		if r.Memo != "" {
			fmt.Fprintf(&sb, "%s<DD>%s\n", indent, html.EscapeString(r.Memo))
		}
	}

	for _, f := range folders(doc) {
		if f.name == "" {
			for _, r := range f.records {
				link("    ", r)
			}
			continue
		}
		fmt.Fprintf(&sb, "    <DT><H3%s>%s</H3>\n    <DL><p>\n", stamp, html.EscapeString(f.name))
		for _, r := range f.records {
			link("        ", r)
		}
		sb.WriteString("    </DL><p>\n")
	}
	sb.WriteString("</DL><p>\n")
	return []byte(sb.String()), nil
}
