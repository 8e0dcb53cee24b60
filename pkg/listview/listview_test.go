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

package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

func ms(v int64) *int64 { return &v }

func rec(name, url, group string, fav bool, last *int64) environment.Record {
	r := environment.NewRecord(name, url, "#123456", group)
	r.IsFavorite = fav
	r.LastAccessed = last
	return r
}

func TestBuild_SortOrder(t *testing.T) {
	records := []environment.Record{
		rec("a", "https://a.service-now.com", "", false, ms(100)),
		rec("b", "https://b.service-now.com", "", true, ms(1)),
		rec("c", "https://c.service-now.com", "", true, ms(50)),
	}

	view := Build(records, nil, "", time.UnixMilli(1000))
	require.Len(t, view.Sections, 1)

	var names []string
	for _, it := range view.Sections[0].Items {
		names = append(names, it.Record.Name)
	}
	assert.Equal(t, []string{"c", "b", "a"}, names)
	assert.Equal(t, 2, view.Sections[0].Items[0].Index)
}

func TestBuild_NullLastAccessedSortsLast(t *testing.T) {
	records := []environment.Record{
		rec("never", "https://n.service-now.com", "", false, nil),
		rec("old", "https://o.service-now.com", "", false, ms(5)),
	}

	items := Build(records, nil, "", time.UnixMilli(10)).Items()
	require.Len(t, items, 2)
	assert.Equal(t, "old", items[0].Record.Name)
	assert.Equal(t, "never", items[1].Relative)
}

func TestBuild_Grouping(t *testing.T) {
	records := []environment.Record{
		rec("loose", "https://l.service-now.com", "", false, nil),
		rec("prod", "https://p.service-now.com", "Prod", false, nil),
		rec("dev", "https://d.service-now.com", "Dev", false, nil),
		rec("orphan", "https://x.service-now.com", "Gone", false, nil),
	}
	groups := []string{"Dev", "Empty", "Prod"}

	view := Build(records, groups, "", time.Now())
	require.Len(t, view.Sections, 3)
	assert.Equal(t, "Dev", view.Sections[0].Name)
	assert.Equal(t, "Prod", view.Sections[1].Name)
	assert.Equal(t, "", view.Sections[2].Name)

	var ungrouped []string
	for _, it := range view.Sections[2].Items {
		ungrouped = append(ungrouped, it.Record.Name)
	}
	assert.ElementsMatch(t, []string{"loose", "orphan"}, ungrouped)
	assert.Equal(t, 4, view.Len())
}

func TestBuild_Current(t *testing.T) {
	records := []environment.Record{
		rec("dev", "https://dev.service-now.com/", "", false, nil),
		rec("test", "https://test.service-now.com/", "", false, nil),
	}

	view := Build(records, nil, "https://test.service-now.com/nav_to.do?x=1", time.Now())
	cur, ok := view.Current()
	require.True(t, ok)
	assert.Equal(t, "test", cur.Record.Name)
	assert.Equal(t, 1, cur.Index)

	_, ok = Build(records, nil, "not a url", time.Now()).Current()
	assert.False(t, ok)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	records := []environment.Record{
		rec("a", "https://a.service-now.com", "", false, ms(1)),
		rec("b", "https://b.service-now.com", "", true, ms(2)),
	}
	before := environment.Clone(records)

	view := Build(records, nil, "", time.Now())
	*view.Items()[0].Record.LastAccessed = 999

	assert.Equal(t, before, records)
}

func TestRelative(t *testing.T) {
	now := time.UnixMilli(100 * 24 * 3600000)
	ago := func(d time.Duration) *int64 { return ms(now.Add(-d).UnixMilli()) }

	tests := []struct {
		name string
		last *int64
		want string
	}{
		{"never", nil, "never"},
		{"30 seconds", ago(30 * time.Second), "just now"},
		{"5 minutes", ago(5 * time.Minute), "5 min ago"},
		{"59 minutes", ago(59*time.Minute + 59*time.Second), "59 min ago"},
		{"3 hours", ago(3*time.Hour + 50*time.Minute), "3 hours ago"},
		{"25 hours", ago(25 * time.Hour), "1 days ago"},
		{"13 days", ago(13 * 24 * time.Hour), "1 weeks ago"},
		{"29 days", ago(29 * 24 * time.Hour), "4 weeks ago"},
		{"65 days", ago(65 * 24 * time.Hour), "2 months ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.last, now))
		})
	}
}
