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

// Package listview derives the grouped, sorted display model of the stored
// environments. It never mutates its input.
package listview

import (
	"fmt"
	"sort"
	"time"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// Item is a single rendered environment.
type Item struct {
	// Index is the record's position in the stored list.
	Index     int
	Record    environment.Record
	IsCurrent bool
	Relative  string
}

// Section is a bucket of items. Ungrouped sections have an empty Name.
type Section struct {
	Name  string
	Items []Item
}

// View is the ordered list of sections: groups in sequence order, then
// the ungrouped bucket.
type View struct {
	Sections []Section
}

// Build derives the view from the stored records and group sequence.
// currentURL marks the item whose hostname matches; it may be empty.
func Build(records []environment.Record, groups []string, currentURL string, now time.Time) View {
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g] = true
	}

	current := environment.Domain(currentURL)
	buckets := make(map[string][]Item, len(groups))
	var ungrouped []Item

	for i, r := range environment.Clone(records) {
		item := Item{
			Index:     i,
			Record:    r,
			IsCurrent: current != "" && environment.Domain(r.URL) == current,
			Relative:  Relative(r.LastAccessed, now),
		}
		if r.Group != "" && known[r.Group] {
			buckets[r.Group] = append(buckets[r.Group], item)
		} else {
			ungrouped = append(ungrouped, item)
		}
	}

	var view View
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if seen[g] || len(buckets[g]) == 0 {
			continue
		}
		seen[g] = true
		view.Sections = append(view.Sections, Section{Name: g, Items: order(buckets[g])})
	}
	if len(ungrouped) > 0 {
		view.Sections = append(view.Sections, Section{Items: order(ungrouped)})
	}
	return view
}

// Items flattens the view in display order.
func (v View) Items() []Item {
	var out []Item
	for _, s := range v.Sections {
		out = append(out, s.Items...)
	}
	return out
}

// Current returns the first item matching the current URL.
func (v View) Current() (Item, bool) {
	for _, it := range v.Items() {
		if it.IsCurrent {
			return it, true
		}
	}
	return Item{}, false
}

// Len returns the number of items across all sections.
func (v View) Len() int {
	n := 0
	for _, s := range v.Sections {
		n += len(s.Items)
	}
	return n
}

// order sorts favorites first, then most recently accessed.
func order(items []Item) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Record, items[j].Record
		if a.IsFavorite != b.IsFavorite {
			return a.IsFavorite
		}
		return lastMillis(a) > lastMillis(b)
	})
	return items
}

func lastMillis(r environment.Record) int64 {
	if r.LastAccessed == nil {
		return 0
	}
	return *r.LastAccessed
}

// Relative humanizes a last-access timestamp (epoch milliseconds).
func Relative(last *int64, now time.Time) string {
	if last == nil {
		return "never"
	}

	minutes := (now.UnixMilli() - *last) / 60000
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d min ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}
