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
	"github.com/charmbracelet/lipgloss"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

type palette struct {
	heading  lipgloss.Style
	selected lipgloss.Style
	normal   lipgloss.Style
	muted    lipgloss.Style
	current  lipgloss.Style
	status   lipgloss.Style
	errorMsg lipgloss.Style
}

func newPalette(theme environment.Theme) palette {
	dark := theme == environment.ThemeDark
	if theme == environment.ThemeAuto {
		dark = lipgloss.HasDarkBackground()
	}

	fg, muted, accent, highlight := "#1f2328", "#6e7781", "#0969da", "#ddf4ff"
	if dark {
		fg, muted, accent, highlight = "#e6edf3", "#8b949e", "#58a6ff", "#1f2d3d"
	}

	return palette{
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).MarginTop(1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fg)).Background(lipgloss.Color(highlight)),
		normal:   lipgloss.NewStyle().Foreground(lipgloss.Color(fg)),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		current:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		status:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(muted)),
		errorMsg: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cf222e")),
	}
}
