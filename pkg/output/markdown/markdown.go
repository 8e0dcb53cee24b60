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

// Package markdown renders the grouped environment list as markdown.
package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/listview"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

// Style selects the markdown layout.
type Style string

const (
	StyleTextual Style = "textual" // one list per section
	StyleTable   Style = "table"   // one table per section
)

const ungroupedHeading = "Ungrouped"

var printer = message.NewPrinter(language.English)

func init() {
	adapter.RegisterOutput(New())
}

// Adapter implements output.Adapter for markdown.
type Adapter struct {
	style Style
}

// New creates a markdown adapter using the textual style.
func New() *Adapter {
	return &Adapter{style: StyleTextual}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "markdown" }

// DisplayName returns a human-friendly name.
func (a *Adapter) DisplayName() string { return "Markdown" }

// Extensions returns supported file extensions.
func (a *Adapter) Extensions() []string { return []string{".md", ".markdown"} }

// Configure reads the "style" option.
func (a *Adapter) Configure(cfg output.Config) error {
	if style, ok := cfg.Options["style"].(string); ok && style != "" {
		a.style = Style(style)
	}
	return nil
}

// Render writes the list view: groups in sequence order then ungrouped
// environments, favorites first and most recently used next.
func (a *Adapter) Render(doc environment.Document, opts output.RenderOptions) ([]byte, error) {
	style := a.style
	if opts.Style != "" {
		style = Style(opts.Style)
	}
	if style != StyleTextual && style != StyleTable {
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}

	now := opts.Time()
	view := listview.Build(doc.Environments, doc.Groups, opts.CurrentURL, now)

	var sb strings.Builder
	sb.WriteString("# ServiceNow Environments\n\n")
	if opts.IncludeMetadata {
		fmt.Fprintf(&sb, "*Generated: %s*\n", now.Format("2006-01-02 15:04:05"))
		printer.Fprintf(&sb, "*Environments: %d in %d groups*\n\n", view.Len(), len(doc.Groups))
	}

	if view.Len() == 0 {
		sb.WriteString("No environments registered.\n")
		return []byte(sb.String()), nil
	}

	for _, section := range view.Sections {
		heading := section.Name
		if heading == "" {
			heading = ungroupedHeading
		}
		fmt.Fprintf(&sb, "## %s\n\n", heading)

		if style == StyleTable {
			renderTable(&sb, section.Items)
		} else {
			renderList(&sb, section.Items)
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func renderList(sb *strings.Builder, items []listview.Item) {
	for _, it := range items {
		r := it.Record
		sb.WriteString("- ")
		if r.IsFavorite {
			sb.WriteString("★ ")
		}
		fmt.Fprintf(sb, "[%s](%s) `%s`", escapeLink(r.Name), r.URL, r.Color)
		if it.IsCurrent {
			sb.WriteString(" **(current)**")
		}
		fmt.Fprintf(sb, " · %s", usage(it))
		sb.WriteString("\n")
		if r.Memo != "" {
			fmt.Fprintf(sb, "  > %s\n", strings.ReplaceAll(r.Memo, "\n", " "))
		}
	}
}

func renderTable(sb *strings.Builder, items []listview.Item) {
	sb.WriteString("| # | Name | URL | Color | Last used | Memo |\n")
	sb.WriteString("|---|------|-----|-------|-----------|------|\n")
	for _, it := range items {
		r := it.Record
		name := escapeCell(r.Name)
		if r.IsFavorite {
			name = "★ " + name
		}
		if it.IsCurrent {
			name = "**" + name + "**"
		}
		fmt.Fprintf(sb, "| %d | %s | %s | `%s` | %s | %s |\n",
			it.Index+1, name, r.URL, r.Color, usage(it), escapeCell(r.Memo))
	}
}

func usage(it listview.Item) string {
	if it.Record.AccessCount == 0 {
		return it.Relative
	}
	return printer.Sprintf("%s, %d switches", it.Relative, it.Record.AccessCount)
}

func escapeLink(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]").Replace(s)
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
