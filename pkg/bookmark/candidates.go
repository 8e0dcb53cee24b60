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

package bookmark

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// CandidateOptions configures Candidates.
type CandidateOptions struct {
	// AllowList holds the accepted URL substrings.
	AllowList []string

	// Exclude holds glob patterns matched against the URL and the
	// slash-joined folder path. "*" stops at "/", "**" does not.
	Exclude []string

	// Color picks the color of the n-th environment overall.
	Color func(n int) string

	// GroupByFolder assigns each candidate its innermost folder as group.
	GroupByFolder bool
}

// Candidate is a bookmark proposed as a new environment.
type Candidate struct {
	Bookmark Bookmark
	Record   environment.Record
}

// Result contains the candidates and what was skipped.
type Result struct {
	Candidates []Candidate
	Warnings   []string
	Skipped    int
}

// Groups returns the distinct candidate groups in first-seen order.
func (r Result) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, c := range r.Candidates {
		g := c.Record.Group
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}

var titleSuffixes = []string{" | ServiceNow", " - ServiceNow", " ServiceNow"}

// Candidates selects allow-listed bookmarks whose hostname is neither
// registered nor already proposed. The first bookmark of a hostname wins.
func Candidates(bookmarks []Bookmark, registered []environment.Record, opts CandidateOptions) (Result, error) {
	var excludes []glob.Glob
	for _, p := range opts.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return Result{}, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		excludes = append(excludes, g)
	}

	known := make(map[string]string, len(registered))
	for _, r := range registered {
		if d := environment.Domain(r.URL); d != "" {
			if _, ok := known[d]; !ok {
				known[d] = r.Name
			}
		}
	}

	var result Result
	proposed := make(map[string]bool)
	for _, b := range bookmarks {
		u, err := url.Parse(b.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.Skipped++
			continue
		}
		if !environment.Allowed(b.URL, opts.AllowList) || excluded(b, excludes) {
			result.Skipped++
			continue
		}

		host := u.Hostname()
		if name, ok := known[host]; ok {
			result.Skipped++
			if !proposed[host] {
				proposed[host] = true
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s is already registered as %s", host, name))
			}
			continue
		}
		if proposed[host] {
			result.Skipped++
			continue
		}
		proposed[host] = true

		color := ""
		if opts.Color != nil {
			color = opts.Color(len(registered) + len(result.Candidates))
		}
		group := ""
		if opts.GroupByFolder {
			group = b.Folder()
		}

		base := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
		result.Candidates = append(result.Candidates, Candidate{
			Bookmark: b,
			Record:   environment.NewRecord(CandidateName(b.Title, host), base.String(), color, group),
		})
	}

	return result, nil
}

// CandidateName derives an environment name from a bookmark title, falling
// back to the instance label of host.
func CandidateName(title, host string) string {
	name := strings.TrimSpace(title)
	for _, s := range titleSuffixes {
		name = strings.TrimSpace(strings.TrimSuffix(name, s))
	}
	if name == "" || strings.EqualFold(name, "ServiceNow") {
		name, _, _ = strings.Cut(host, ".")
	}
	return name
}

func excluded(b Bookmark, patterns []glob.Glob) bool {
	folder := strings.Join(b.FolderPath, "/")
	for _, g := range patterns {
		if g.Match(b.URL) || (folder != "" && g.Match(folder)) {
			return true
		}
	}
	return false
}
