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

package switcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/browser"
	"github.com/cloudygreybeard/envswitch/pkg/browser/browsertest"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/store"
)

type answers struct {
	confirm  []bool
	replies  []string
	messages []string
	alerts   []string
}

func (a *answers) Confirm(_ context.Context, message string) (bool, error) {
	a.messages = append(a.messages, message)
	if len(a.confirm) == 0 {
		return false, nil
	}
	ok := a.confirm[0]
	a.confirm = a.confirm[1:]
	return ok, nil
}

func (a *answers) Prompt(_ context.Context, message, def string) (string, error) {
	a.messages = append(a.messages, message)
	if len(a.replies) == 0 {
		return def, nil
	}
	reply := a.replies[0]
	a.replies = a.replies[1:]
	return reply, nil
}

func (a *answers) Alert(_ context.Context, message string) error {
	a.alerts = append(a.alerts, message)
	return nil
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type fixture struct {
	ctl    *Controller
	store  *store.Store
	fake   *browsertest.Fake
	prompt *answers
}

func newFixture(t *testing.T, doc environment.Document) fixture {
	t.Helper()
	s := store.New(store.NewMemory())
	require.NoError(t, s.SetDocument(context.Background(), doc))
	fake := browsertest.New()
	prompt := &answers{}
	return fixture{
		ctl:    New(s, fake, prompt, WithClock(func() time.Time { return fixedNow })),
		store:  s,
		fake:   fake,
		prompt: prompt,
	}
}

func names(records []environment.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{Groups: []string{"Dev"}})

	i, err := f.ctl.Add(ctx, Form{Name: " dev1 ", URL: "https://dev1.service-now.com/", Group: "Dev"})
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	envs, err := f.store.Environments(ctx)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "dev1", envs[0].Name)
	assert.Equal(t, DefaultColor, envs[0].Color)
	assert.Equal(t, "Dev", envs[0].Group)
	assert.Nil(t, envs[0].LastAccessed)
	assert.Zero(t, envs[0].AccessCount)
	assert.False(t, envs[0].IsFavorite)
}

func TestAdd_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{})

	_, err := f.ctl.Add(ctx, Form{URL: "https://a.service-now.com"})
	assert.ErrorIs(t, err, environment.ErrEmptyField)

	_, err = f.ctl.Add(ctx, Form{Name: "x", URL: "https://example.com"})
	assert.ErrorIs(t, err, environment.ErrURLNotAllowed)

	_, err = f.ctl.Add(ctx, Form{Name: "x", URL: "https://a.service-now.com", Group: "nope"})
	assert.ErrorIs(t, err, environment.ErrGroupNotFound)

	// The allow-list is a substring check and accepts look-alike hosts.
	_, err = f.ctl.Add(ctx, Form{Name: "odd", URL: "https://evil-service-now.com.attacker.net"})
	assert.NoError(t, err)

	envs, err := f.store.Environments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, names(envs))
}

func TestEdit_PreservesStats(t *testing.T) {
	ctx := context.Background()
	last := int64(42)
	rec := environment.NewRecord("dev", "https://dev.service-now.com", "#fff", "")
	rec.IsFavorite = true
	rec.LastAccessed = &last
	rec.AccessCount = 7
	f := newFixture(t, environment.Document{Environments: []environment.Record{rec}})

	assert.ErrorIs(t, f.ctl.SaveEdit(ctx, Form{Name: "x"}), ErrNoPendingEdit)

	edit, err := f.ctl.BeginEdit(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "dev", edit.Record.Name)

	require.NoError(t, f.ctl.SaveEdit(ctx, Form{Name: "Dev2", URL: "https://dev2.service-now.com", Color: "#000", Memo: "m"}))
	_, pending := f.ctl.Pending()
	assert.False(t, pending)

	envs, err := f.store.Environments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dev2", envs[0].Name)
	assert.Equal(t, "m", envs[0].Memo)
	assert.True(t, envs[0].IsFavorite)
	assert.Equal(t, 7, envs[0].AccessCount)
	assert.Equal(t, int64(42), *envs[0].LastAccessed)

	_, err = f.ctl.BeginEdit(ctx, 5)
	assert.ErrorIs(t, err, environment.ErrIndexOutOfRange)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{Environments: []environment.Record{
		environment.NewRecord("a", "https://a.service-now.com", "#fff", ""),
		environment.NewRecord("b", "https://b.service-now.com", "#fff", ""),
	}})

	f.prompt.confirm = []bool{false, true}
	removed, err := f.ctl.Delete(ctx, 0)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = f.ctl.Delete(ctx, 0)
	require.NoError(t, err)
	assert.True(t, removed)

	envs, err := f.store.Environments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names(envs))
}

func TestSwitch_PreservesPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{Environments: []environment.Record{
		environment.NewRecord("a", "https://a.service-now.com/", "#fff", ""),
		environment.NewRecord("b", "https://b.service-now.com/", "#fff", ""),
	}})
	id := f.fake.Open("https://a.service-now.com/nav_to.do?id=5#frag")

	target, err := f.ctl.Switch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://b.service-now.com/nav_to.do?id=5#frag", target)

	tab, err := f.fake.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, target, tab.URL)

	envs, err := f.store.Environments(ctx)
	require.NoError(t, err)
	require.NotNil(t, envs[1].LastAccessed)
	assert.Equal(t, fixedNow.UnixMilli(), *envs[1].LastAccessed)
	assert.Equal(t, 1, envs[1].AccessCount)
	assert.Nil(t, envs[0].LastAccessed)
}

func TestSwitch_PreserveDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{Environments: []environment.Record{
		environment.NewRecord("b", "https://b.service-now.com/home", "#fff", ""),
	}})
	require.NoError(t, f.ctl.SetPreservePath(ctx, false))
	f.fake.Open("https://a.service-now.com/nav_to.do?id=5")

	target, err := f.ctl.Switch(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://b.service-now.com/home", target)
}

func TestTarget(t *testing.T) {
	allow := environment.DefaultAllowList
	base := "https://b.service-now.com:8443/"

	assert.Equal(t, "https://b.service-now.com:8443/x/y?q=1",
		Target(base, "https://a.service-now.com/x/y?q=1", true, allow))
	assert.Equal(t, base, Target(base, "https://www.example.com/x", true, allow))
	assert.Equal(t, base, Target(base, "", true, allow))
	assert.Equal(t, base, Target(base, "service-now.com relative", true, allow))
	assert.Equal(t, "not a url service-now.com", Target("not a url service-now.com", "https://a.service-now.com/x", true, allow))
	assert.Equal(t, base, Target(base, "https://a.service-now.com/x", false, allow))
}

func TestToggleFavoriteAndMove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{Environments: []environment.Record{
		environment.NewRecord("a", "https://a.service-now.com", "#fff", ""),
		environment.NewRecord("b", "https://b.service-now.com", "#fff", ""),
		environment.NewRecord("c", "https://c.service-now.com", "#fff", ""),
	}})

	fav, err := f.ctl.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fav)
	fav, err = f.ctl.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, f.ctl.Move(ctx, 0, 2))
	envs, err := f.store.Environments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names(envs))

	assert.ErrorIs(t, f.ctl.Move(ctx, 0, 3), environment.ErrIndexOutOfRange)
}

func TestGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{
		Environments: []environment.Record{
			environment.NewRecord("X", "https://x.service-now.com", "#fff", "G1"),
			environment.NewRecord("Y", "https://y.service-now.com", "#fff", "G1"),
			environment.NewRecord("Z", "https://z.service-now.com", "#fff", "G2"),
		},
		Groups: []string{"G1", "G2"},
	})

	assert.ErrorIs(t, f.ctl.AddGroup(ctx, "  "), environment.ErrEmptyField)
	assert.ErrorIs(t, f.ctl.AddGroup(ctx, "G1"), environment.ErrDuplicateGroup)
	require.NoError(t, f.ctl.AddGroup(ctx, "G3"))

	assert.ErrorIs(t, f.ctl.RenameGroup(ctx, "G2", "G1"), environment.ErrDuplicateGroup)
	assert.ErrorIs(t, f.ctl.RenameGroup(ctx, "nope", "G9"), environment.ErrGroupNotFound)
	require.NoError(t, f.ctl.RenameGroup(ctx, "G2", "Prod"))

	require.NoError(t, f.ctl.MoveGroup(ctx, "G3", "G1"))

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"G3", "G1", "Prod"}, doc.Groups)
	assert.Equal(t, "Prod", doc.Environments[2].Group)
}

func TestDeleteGroup_Cascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{
		Environments: []environment.Record{
			environment.NewRecord("X", "https://x.service-now.com", "#fff", "G1"),
			environment.NewRecord("Y", "https://y.service-now.com", "#fff", "G1"),
			environment.NewRecord("Z", "https://z.service-now.com", "#fff", "G2"),
		},
		Groups: []string{"G1", "G2"},
	})

	f.prompt.confirm = []bool{true}
	removed, err := f.ctl.DeleteGroup(ctx, "G1")
	require.NoError(t, err)
	assert.True(t, removed)

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"G2"}, doc.Groups)
	require.Len(t, doc.Environments, 3)
	assert.Equal(t, "", doc.Environments[0].Group)
	assert.Equal(t, "", doc.Environments[1].Group)
	assert.Equal(t, "G2", doc.Environments[2].Group)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{})

	_, err := f.ctl.Export(ctx)
	assert.ErrorIs(t, err, environment.ErrNothingToExport)

	_, err = f.ctl.Add(ctx, Form{Name: "dev", URL: "https://dev.service-now.com", Color: "#fff"})
	require.NoError(t, err)

	file, err := f.ctl.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "servicenow-environments-2026-03-14.json", file.Name)
	assert.Contains(t, string(file.Data), "\n  \"environments\": [")

	doc, err := environment.ParseDocument(file.Data)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev"}, names(doc.Environments))
}

func importFixture(t *testing.T) fixture {
	return newFixture(t, environment.Document{
		Environments: []environment.Record{environment.NewRecord("C", "https://c.service-now.com", "#fff", "G2")},
		Groups:       []string{"G2"},
	})
}

const importData = `{"environments":[
	{"name":"A","url":"https://a.service-now.com","color":"#f00","group":"G1"},
	{"name":"B","url":"https://b.service-now.com","color":"#0f0"}
],"groups":["G1"]}`

func TestImport_Merge(t *testing.T) {
	ctx := context.Background()
	f := importFixture(t)

	n, err := f.ctl.Import(ctx, []byte(importData), ModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, names(doc.Environments))
	assert.ElementsMatch(t, []string{"G1", "G2"}, doc.Groups)
	assert.Zero(t, doc.Environments[2].AccessCount)
	assert.Nil(t, doc.Environments[2].LastAccessed)
}

func TestImport_Overwrite(t *testing.T) {
	ctx := context.Background()
	f := importFixture(t)

	_, err := f.ctl.Import(ctx, []byte(importData), ModeOverwrite)
	require.NoError(t, err)

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(doc.Environments))
	assert.Equal(t, []string{"G1"}, doc.Groups)
}

func TestImport_AskAndLegacy(t *testing.T) {
	ctx := context.Background()
	f := importFixture(t)
	f.prompt.confirm = []bool{false}

	_, err := f.ctl.Import(ctx, []byte(`[{"name":"L","url":"https://l.service-now.com","color":"#000"}]`), ModeAsk)
	require.NoError(t, err)
	require.Len(t, f.prompt.messages, 1)

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"L"}, names(doc.Environments))
	assert.Empty(t, doc.Groups)
}

func TestImport_FailuresLeaveStore(t *testing.T) {
	ctx := context.Background()
	f := importFixture(t)

	for _, data := range []string{
		`{not json`,
		`"text"`,
		`{"environments":{}}`,
		`[{"name":"A","url":"https://a.service-now.com"}]`,
	} {
		_, err := f.ctl.Import(ctx, []byte(data), ModeOverwrite)
		assert.ErrorIs(t, err, ErrImportFailed, data)
	}

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, names(doc.Environments))
	assert.Equal(t, []string{"G2"}, doc.Groups)
}

func TestSettingsBroadcast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{})
	a := f.fake.Open("https://a.service-now.com/")
	f.fake.Open("https://www.example.com/")

	var got []browser.Message
	f.fake.Listen(a, func(m browser.Message) { got = append(got, m) })

	require.NoError(t, f.ctl.SetPrefixEnabled(ctx, false))
	assert.ErrorIs(t, f.ctl.SetTheme(ctx, "neon"), ErrInvalidSetting)
	require.NoError(t, f.ctl.SetTheme(ctx, environment.ThemeDark))

	assert.Equal(t, []browser.Message{browser.MessageUpdatePrefix, browser.MessageUpdatePrefix}, got)

	settings, err := f.store.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.PrefixEnabled)
	assert.Equal(t, environment.ThemeDark, settings.Theme)
}

func TestParseImportMode(t *testing.T) {
	m, err := ParseImportMode("merge")
	require.NoError(t, err)
	assert.Equal(t, ModeMerge, m)

	_, err = ParseImportMode("append")
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{})

	_, err := f.ctl.Add(ctx, Form{Name: "Dev", URL: "https://www.example.com/"})
	reported := f.ctl.Report(ctx, err)
	assert.True(t, Reported(reported))
	assert.ErrorIs(t, reported, environment.ErrURLNotAllowed)

	_, err = f.ctl.Import(ctx, []byte(`{not json`), ModeMerge)
	assert.True(t, Reported(f.ctl.Report(ctx, err)))

	_, err = f.ctl.Export(ctx)
	assert.True(t, Reported(f.ctl.Report(ctx, err)))
	require.Len(t, f.prompt.alerts, 3)
	assert.Contains(t, f.prompt.alerts[1], "import failed")

	// Already reported errors are not shown twice.
	assert.True(t, Reported(f.ctl.Report(ctx, reported)))
	assert.Len(t, f.prompt.alerts, 3)

	_, err = f.ctl.Switch(ctx, 5)
	assert.False(t, Reported(f.ctl.Report(ctx, err)))
	assert.NoError(t, f.ctl.Report(ctx, nil))
	assert.Len(t, f.prompt.alerts, 3)
}

func TestPromptRenameGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, environment.Document{
		Environments: []environment.Record{environment.NewRecord("A", "https://a.service-now.com/", "#111", "Old")},
		Groups:       []string{"Old", "Other"},
	})

	f.prompt.replies = []string{"  New  "}
	name, err := f.ctl.PromptRenameGroup(ctx, "Old")
	require.NoError(t, err)
	assert.Equal(t, "New", name)
	assert.Equal(t, []string{`New name for group "Old"`}, f.prompt.messages)

	doc, err := f.store.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Other"}, doc.Groups)
	assert.Equal(t, "New", doc.Environments[0].Group)

	f.prompt.replies = []string{"Other"}
	_, err = f.ctl.PromptRenameGroup(ctx, "New")
	assert.ErrorIs(t, err, environment.ErrDuplicateGroup)

	// An empty reply keeps the offered name.
	name, err = f.ctl.PromptRenameGroup(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", name)
}
