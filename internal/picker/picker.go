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

// Package picker is the terminal popup: the grouped environment list with
// keyboard switching.
package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/listview"
)

const (
	ungroupedHeading = "Ungrouped"
	defaultWidth     = 80
	minNameWidth     = 8
)

// Actions is what the picker needs from the switch controller.
type Actions interface {
	View(ctx context.Context, currentURL string) (listview.View, error)
	Switch(ctx context.Context, i int) (string, error)
	ToggleFavorite(ctx context.Context, i int) (bool, error)
}

// Jumper opens the environment at a 1-based position as is, without
// recording a visit.
type Jumper interface {
	Jump(ctx context.Context, n int) error
}

type loadedMsg struct{ view listview.View }

type switchedMsg struct{ target string }

type jumpedMsg struct{ target string }

type toggledMsg struct {
	name     string
	favorite bool
}

type errMsg struct{ err error }

// Model is the bubbletea model of the picker.
type Model struct {
	ctx        context.Context
	actions    Actions
	jumper     Jumper
	currentURL string

	view   listview.View
	items  []listview.Item
	cursor int
	loaded bool

	switched string
	status   string
	err      error

	width   int
	keys    keyMap
	help    help.Model
	palette palette
}

// New creates a picker. currentURL marks the matching environment. A nil
// jumper disables the 1-9 keys.
func New(ctx context.Context, actions Actions, jumper Jumper, currentURL string, theme environment.Theme) Model {
	return Model{
		ctx:        ctx,
		actions:    actions,
		jumper:     jumper,
		currentURL: currentURL,
		width:      defaultWidth,
		keys:       defaultKeyMap(),
		help:       help.New(),
		palette:    newPalette(theme),
	}
}

// Switched returns the navigation target, or "" if the user quit.
func (m Model) Switched() string { return m.switched }

// Err returns the last action error.
func (m Model) Err() error { return m.err }

func (m Model) load() tea.Msg {
	v, err := m.actions.View(m.ctx, m.currentURL)
	if err != nil {
		return errMsg{err}
	}
	return loadedMsg{v}
}

// Init loads the list.
func (m Model) Init() tea.Cmd {
	return m.load
}

// Update handles keys and action results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		first := !m.loaded
		m.view = msg.view
		m.items = msg.view.Items()
		m.loaded = true
		if first {
			m.cursor = m.currentPosition()
		} else if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m, nil

	case switchedMsg:
		m.switched = msg.target
		return m, tea.Quit

	case jumpedMsg:
		m.switched = msg.target
		return m, tea.Quit

	case toggledMsg:
		if msg.favorite {
			m.status = fmt.Sprintf("%s added to favorites", msg.name)
		} else {
			m.status = fmt.Sprintf("%s removed from favorites", msg.name)
		}
		return m, m.load

	case errMsg:
		m.err = msg.err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Switch):
		if it, ok := m.selected(); ok {
			return m, m.switchTo(it.Index)
		}

	case key.Matches(msg, m.keys.Favorite):
		if it, ok := m.selected(); ok {
			return m, m.toggle(it.Index, it.Record.Name)
		}

	case key.Matches(msg, m.keys.Jump):
		if m.jumper == nil {
			return m, nil
		}
		n := int(msg.String()[0] - '0')
		it, ok := m.item(n - 1)
		if !ok {
			m.status = fmt.Sprintf("No environment %d", n)
			return m, nil
		}
		return m, m.jump(n, it.Record.URL)
	}
	return m, nil
}

func (m Model) switchTo(i int) tea.Cmd {
	return func() tea.Msg {
		target, err := m.actions.Switch(m.ctx, i)
		if err != nil {
			return errMsg{err}
		}
		return switchedMsg{target}
	}
}

func (m Model) jump(n int, target string) tea.Cmd {
	return func() tea.Msg {
		if err := m.jumper.Jump(m.ctx, n); err != nil {
			return errMsg{err}
		}
		return jumpedMsg{target}
	}
}

func (m Model) toggle(i int, name string) tea.Cmd {
	return func() tea.Msg {
		fav, err := m.actions.ToggleFavorite(m.ctx, i)
		if err != nil {
			return errMsg{err}
		}
		return toggledMsg{name: name, favorite: fav}
	}
}

func (m Model) selected() (listview.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return listview.Item{}, false
	}
	return m.items[m.cursor], true
}

// item returns the item whose stored position is i.
func (m Model) item(i int) (listview.Item, bool) {
	for _, it := range m.items {
		if it.Index == i {
			return it, true
		}
	}
	return listview.Item{}, false
}

func (m Model) currentPosition() int {
	for i, it := range m.items {
		if it.IsCurrent {
			return i
		}
	}
	return 0
}

// View renders the list.
func (m Model) View() string {
	if !m.loaded {
		if m.err != nil {
			return m.palette.errorMsg.Render("Error: "+m.err.Error()) + "\n"
		}
		return m.palette.status.Render("Loading environments...") + "\n"
	}

	var b strings.Builder
	if len(m.items) == 0 {
		b.WriteString(m.palette.muted.Render("No environments registered. Add one with: envswitch add"))
		b.WriteString("\n")
	}

	pos := 0
	for _, section := range m.view.Sections {
		heading := section.Name
		if heading == "" {
			heading = ungroupedHeading
		}
		b.WriteString(m.palette.heading.Render(heading))
		b.WriteString("\n")
		for _, it := range section.Items {
			b.WriteString(m.renderItem(it, pos == m.cursor))
			b.WriteString("\n")
			pos++
		}
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.palette.errorMsg.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.palette.status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderItem(it listview.Item, selected bool) string {
	r := it.Record

	marker := "  "
	if selected {
		marker = "> "
	}
	star := " "
	if r.IsFavorite {
		star = "★"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("■")
	when := it.Relative
	if it.IsCurrent {
		when = "current"
	}

	// marker, number, swatch, star and the spaces between them
	fixed := 2 + 3 + 2 + 2 + 1 + runewidth.StringWidth(when)
	nameWidth := max(m.width-fixed, minNameWidth)
	name := runewidth.Truncate(r.Name, nameWidth, "…")
	name = runewidth.FillRight(name, nameWidth)

	style := m.palette.normal
	if selected {
		style = m.palette.selected
	}
	whenStyle := m.palette.muted
	if it.IsCurrent {
		whenStyle = m.palette.current
	}

	return fmt.Sprintf("%s%2d %s %s %s %s",
		marker, it.Index+1, swatch, star, style.Render(name), whenStyle.Render(when))
}

// Run shows the picker until the user switches or quits. It returns the
// navigation target, or "" when nothing was switched.
func Run(ctx context.Context, actions Actions, jumper Jumper, currentURL string, theme environment.Theme) (string, error) {
	final, err := tea.NewProgram(New(ctx, actions, jumper, currentURL, theme), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	m := final.(Model)
	return m.Switched(), m.Err()
}
