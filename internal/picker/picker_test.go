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

package picker

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/browser/browsertest"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/indicator"
	"github.com/cloudygreybeard/envswitch/pkg/listview"
	"github.com/cloudygreybeard/envswitch/pkg/store"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
)

type silent struct{}

func (silent) Confirm(context.Context, string) (bool, error) { return true, nil }
func (silent) Prompt(_ context.Context, _ string, def string) (string, error) { return def, nil }
func (silent) Alert(context.Context, string) error { return nil }

func setup(t *testing.T) (*switcher.Controller, *store.Store, *browsertest.Fake) {
	t.Helper()
	ctx := context.Background()
	s := store.New(store.NewMemory())
	require.NoError(t, s.SetDocument(ctx, environment.Document{
		Environments: []environment.Record{
			environment.NewRecord("Dev", "https://dev.service-now.com/", "#4caf50", ""),
			environment.NewRecord("Test", "https://test.service-now.com/", "#2196f3", ""),
			environment.NewRecord("A very long production instance name", "https://prod.service-now.com/", "#f44336", "Live"),
		},
		Groups: []string{"Live"},
	}))
	fake := browsertest.New()
	fake.Open("https://test.service-now.com/incident.do")
	return switcher.New(s, fake, silent{}), s, fake
}

// send feeds msg to the model and runs the resulting command once.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, ctl *switcher.Controller, url string) Model {
	t.Helper()
	m := New(context.Background(), ctl, nil, url, environment.ThemeLight)
	m, _ = send(t, m, m.Init()())
	require.True(t, m.loaded)
	return m
}

func TestLoad_CursorOnCurrent(t *testing.T) {
	ctl, _, _ := setup(t)
	m := loaded(t, ctl, "https://test.service-now.com/incident.do")

	it, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "Test", it.Record.Name)

	out := m.View()
	assert.Contains(t, out, "Live")
	assert.Contains(t, out, "Ungrouped")
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "never")
}

func TestEnter_Switches(t *testing.T) {
	ctl, s, fake := setup(t)
	m := loaded(t, ctl, "")

	// Live section first, then Dev and Test.
	m, _ = send(t, m, keyMsg("j"))
	m, msg := send(t, m, keyMsg("enter"))
	require.IsType(t, switchedMsg{}, msg)

	next, cmd := m.Update(msg)
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "https://dev.service-now.com/incident.do", m.Switched())

	tab, err := fake.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://dev.service-now.com/incident.do", tab.URL)

	records, err := s.Environments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, records[0].AccessCount)
}

func TestFavorite_Reloads(t *testing.T) {
	ctl, s, _ := setup(t)
	m := loaded(t, ctl, "")

	m, _ = send(t, m, keyMsg("down"))
	m, _ = send(t, m, keyMsg("down"))
	m, msg := send(t, m, keyMsg("f"))
	require.Equal(t, toggledMsg{name: "Test", favorite: true}, msg)

	m, msg = send(t, m, msg)
	assert.Equal(t, "Test added to favorites", m.status)
	m, _ = send(t, m, msg)
	assert.Equal(t, "Test", m.items[1].Record.Name)

	records, err := s.Environments(context.Background())
	require.NoError(t, err)
	assert.True(t, records[1].IsFavorite)
}

func TestJump_OpensRecordURL(t *testing.T) {
	ctl, s, fake := setup(t)
	m := New(context.Background(), ctl, indicator.New(s, fake, fake), "", environment.ThemeLight)
	m, _ = send(t, m, m.Init()())

	m, msg := send(t, m, keyMsg("9"))
	assert.Nil(t, msg)
	assert.Equal(t, "No environment 9", m.status)

	m, msg = send(t, m, keyMsg("3"))
	require.Equal(t, jumpedMsg{target: "https://prod.service-now.com/"}, msg)
	m, _ = send(t, m, msg)
	assert.Equal(t, "https://prod.service-now.com/", m.Switched())

	tab, err := fake.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://prod.service-now.com/", tab.URL)

	records, err := s.Environments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, records[2].AccessCount)
	assert.Nil(t, records[2].LastAccessed)
}

func TestJump_DisabledWithoutJumper(t *testing.T) {
	ctl, _, fake := setup(t)
	m := loaded(t, ctl, "")

	_, msg := send(t, m, keyMsg("1"))
	assert.Nil(t, msg)
	tab, err := fake.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://test.service-now.com/incident.do", tab.URL)
}

func TestQuit(t *testing.T) {
	ctl, _, _ := setup(t)
	m := loaded(t, ctl, "")
	for _, k := range []string{"q", "esc"} {
		_, msg := send(t, m, keyMsg(k))
		assert.IsType(t, tea.QuitMsg{}, msg, k)
	}
	assert.Equal(t, "", m.Switched())
}

type failing struct{}

func (failing) View(context.Context, string) (listview.View, error) {
	return listview.View{}, errors.New("store unavailable")
}
func (failing) Switch(context.Context, int) (string, error) { return "", nil }
func (failing) ToggleFavorite(context.Context, int) (bool, error) { return false, nil }

func TestLoadError(t *testing.T) {
	m := New(context.Background(), failing{}, nil, "", environment.ThemeDark)
	m, _ = send(t, m, m.Init()())
	assert.Contains(t, m.View(), "store unavailable")
}

func TestRenderItem_Truncates(t *testing.T) {
	ctl, _, _ := setup(t)
	m := loaded(t, ctl, "")
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})

	line := m.renderItem(m.items[0], false)
	assert.Contains(t, line, "A very l")
	assert.Contains(t, line, "…")
	assert.NotContains(t, line, "instance name")
}
