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

// Package system exposes the user's default browser as a single tab.
// The tab's URL is whatever the caller says the current page is; updates
// open the target with the OS URL handler.
package system

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/cloudygreybeard/envswitch/pkg/browser"
)

// TabID is the id of the only tab.
const TabID browser.TabID = 1

// Opener launches url outside the process.
type Opener func(url string) error

// Browser implements browser.Tabs and browser.Action.
type Browser struct {
	mu    sync.Mutex
	url   string
	open  Opener
	text  string
	color string
	icon  browser.Icon
}

// New returns a browser whose tab shows current.
func New(current string) *Browser {
	return &Browser{url: current, open: OpenURL}
}

// WithOpener replaces the URL handler.
func (b *Browser) WithOpener(open Opener) *Browser {
	b.open = open
	return b
}

// OpenURL opens url with the platform's default handler.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Run()
}

// Active implements browser.Tabs.
func (b *Browser) Active(ctx context.Context) (browser.Tab, error) {
	return b.Get(ctx, TabID)
}

// Get implements browser.Tabs.
func (b *Browser) Get(ctx context.Context, id browser.TabID) (browser.Tab, error) {
	if id != TabID {
		return browser.Tab{}, fmt.Errorf("tab %d: %w", id, browser.ErrNoTab)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return browser.Tab{ID: TabID, URL: b.url, Active: true}, nil
}

// Update implements browser.Tabs.
func (b *Browser) Update(ctx context.Context, id browser.TabID, url string) error {
	if id != TabID {
		return fmt.Errorf("tab %d: %w", id, browser.ErrNoTab)
	}
	if err := b.open(url); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	b.mu.Lock()
	b.url = url
	b.mu.Unlock()
	return nil
}

// All implements browser.Tabs.
func (b *Browser) All(ctx context.Context) ([]browser.Tab, error) {
	t, err := b.Active(ctx)
	if err != nil {
		return nil, err
	}
	return []browser.Tab{t}, nil
}

// Send implements browser.Tabs. The external browser has no page hook.
func (b *Browser) Send(ctx context.Context, id browser.TabID, msg browser.Message) error {
	return fmt.Errorf("tab %d: %w", id, browser.ErrNoListener)
}

// SetBadgeText implements browser.Action.
func (b *Browser) SetBadgeText(ctx context.Context, id browser.TabID, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	return nil
}

// SetBadgeColor implements browser.Action.
func (b *Browser) SetBadgeColor(ctx context.Context, id browser.TabID, color string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = color
	return nil
}

// SetIcon implements browser.Action.
func (b *Browser) SetIcon(ctx context.Context, id browser.TabID, icon browser.Icon) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.icon = icon
	return nil
}

// Badge renders the current badge for a terminal. It is empty when no
// environment matched.
func (b *Browser) Badge() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.text == "" {
		return ""
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#ffffff"))
	if b.color != "" {
		style = style.Background(lipgloss.Color(b.color))
	}
	return style.Render(b.text)
}

// HasIcon reports whether a generated icon is set.
func (b *Browser) HasIcon() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.icon.Image != nil
}
