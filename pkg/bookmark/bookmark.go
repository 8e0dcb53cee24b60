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

// Package bookmark models bookmarks read from browsers and turns them into
// environment candidates.
//
// Input adapters produce Bookmarks. Candidates filters them down to the
// instances worth registering:
//
//	found := bookmark.Candidates(bookmarks, registered, bookmark.CandidateOptions{
//	    AllowList: cfg.AllowDomains,
//	    Color:     cfg.Color,
//	})
//	for _, c := range found {
//	    fmt.Println(c.Record.Name, c.Record.URL)
//	}
package bookmark

// Bookmark is a single bookmark from any source.
type Bookmark struct {
	// Title is the display name. It may be empty.
	Title string

	// URL is the bookmark target.
	URL string

	// FolderPath is the folder chain from the source root, outermost first.
	FolderPath []string

	// Source is the adapter name that produced the bookmark.
	Source string

	// Profile is the browser profile the bookmark was read from.
	Profile string
}

// Folder returns the innermost folder name, or "" at the root.
func (b Bookmark) Folder() string {
	if len(b.FolderPath) == 0 {
		return ""
	}
	return b.FolderPath[len(b.FolderPath)-1]
}

// SourceInfo describes an adapter run that contributed bookmarks.
type SourceInfo struct {
	Name    string
	Profile string
	Path    string
	Count   int
}
