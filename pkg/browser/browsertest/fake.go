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

// Package browsertest provides an in-memory browser for tests.
package browsertest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudygreybeard/envswitch/pkg/browser"
)

// Badge is the recorded action state of one tab.
type Badge struct {
	Text  string
	Color string
	Icon  browser.Icon
}

// Fake implements browser.Tabs and browser.Action in memory.
type Fake struct {
	mu        sync.Mutex
	tabs      map[browser.TabID]*browser.Tab
	active    browser.TabID
	badges    map[browser.TabID]*Badge
	listeners map[browser.TabID]func(browser.Message)
	sent      []browser.Message
	nextID    browser.TabID
}

// New returns an empty fake browser.
func New() *Fake {
	return &Fake{
		tabs:      make(map[browser.TabID]*browser.Tab),
		badges:    make(map[browser.TabID]*Badge),
		listeners: make(map[browser.TabID]func(browser.Message)),
		nextID:    1,
	}
}

// Open adds a tab and makes it active.
func (f *Fake) Open(url string) browser.TabID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	for _, t := range f.tabs {
		t.Active = false
	}
	f.tabs[id] = &browser.Tab{ID: id, URL: url, Active: true}
	f.active = id
	return id
}

// Listen installs a page message handler on a tab.
func (f *Fake) Listen(id browser.TabID, fn func(browser.Message)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[id] = fn
}

// Badge returns the recorded action state of a tab.
func (f *Fake) Badge(id browser.TabID) Badge {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.badges[id]; ok {
		return *b
	}
	return Badge{}
}

// Sent returns the messages delivered to listeners so far.
func (f *Fake) Sent() []browser.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]browser.Message(nil), f.sent...)
}

// Active implements browser.Tabs.
func (f *Fake) Active(ctx context.Context) (browser.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tabs[f.active]
	if !ok {
		return browser.Tab{}, browser.ErrNoTab
	}
	return *t, nil
}

// Get implements browser.Tabs.
func (f *Fake) Get(ctx context.Context, id browser.TabID) (browser.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tabs[id]
	if !ok {
		return browser.Tab{}, fmt.Errorf("tab %d: %w", id, browser.ErrNoTab)
	}
	return *t, nil
}

// Update implements browser.Tabs.
func (f *Fake) Update(ctx context.Context, id browser.TabID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tabs[id]
	if !ok {
		return fmt.Errorf("tab %d: %w", id, browser.ErrNoTab)
	}
	t.URL = url
	return nil
}

// All implements browser.Tabs.
func (f *Fake) All(ctx context.Context) ([]browser.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]browser.Tab, 0, len(f.tabs))
	for _, t := range f.tabs {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Send implements browser.Tabs.
func (f *Fake) Send(ctx context.Context, id browser.TabID, msg browser.Message) error {
	f.mu.Lock()
	fn, ok := f.listeners[id]
	if ok {
		f.sent = append(f.sent, msg)
	}
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("tab %d: %w", id, browser.ErrNoListener)
	}
	fn(msg)
	return nil
}

// SetBadgeText implements browser.Action.
func (f *Fake) SetBadgeText(ctx context.Context, id browser.TabID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badge(id).Text = text
	return nil
}

// SetBadgeColor implements browser.Action.
func (f *Fake) SetBadgeColor(ctx context.Context, id browser.TabID, color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badge(id).Color = color
	return nil
}

// SetIcon implements browser.Action.
func (f *Fake) SetIcon(ctx context.Context, id browser.TabID, icon browser.Icon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badge(id).Icon = icon
	return nil
}

func (f *Fake) badge(id browser.TabID) *Badge {
	b, ok := f.badges[id]
	if !ok {
		b = &Badge{}
		f.badges[id] = b
	}
	return b
}
