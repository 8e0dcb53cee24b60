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

// Package playwright drives a Chromium session as the tab and action
// surface. Each page is a tab; the badge is drawn as an in-page overlay
// and the icon replaces the page favicon.
package playwright

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/browser"
)

const (
	subsystem = "playwright"

	// eventBuffer bounds queued tab events; further events are dropped.
	eventBuffer = 64

	titleBinding = "__envswitchTitleChanged"
	focusBinding = "__envswitchFocused"
)

// Options configures Launch.
type Options struct {
	Headless bool

	// Install downloads the Chromium driver before launching.
	Install bool
}

// Handler receives messages sent to a tab.
type Handler func(ctx context.Context, msg browser.Message) error

// Session is a running browser. It implements browser.Tabs and
// browser.Action.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext

	mu        sync.Mutex
	pages     map[browser.TabID]playwright.Page
	ids       map[playwright.Page]browser.TabID
	badges    map[browser.TabID]*badge
	listeners map[browser.TabID]Handler
	observers map[browser.TabID]func()
	active    browser.TabID
	next      browser.TabID
	closed    bool

	events chan browser.Event
}

type badge struct {
	text  string
	color string
}

// Launch starts Playwright and a Chromium browser context.
func Launch(opts Options) (*Session, error) {
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := b.NewContext()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	s := newSession(pw, b, bctx)

	err = bctx.ExposeBinding(titleBinding, func(source *playwright.BindingSource, args ...interface{}) interface{} {
		// Bindings run on the driver's dispatch goroutine; calling back into
		// the page from here would block it.
		go s.titleChanged(source.Page)
		return nil
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to expose title binding: %w", err)
	}

	err = bctx.ExposeBinding(focusBinding, func(source *playwright.BindingSource, args ...interface{}) interface{} {
		go s.pageFocused(source.Page)
		return nil
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to expose focus binding: %w", err)
	}

	bctx.OnPage(func(p playwright.Page) { s.register(p) })
	return s, nil
}

func newSession(pw *playwright.Playwright, b playwright.Browser, bctx playwright.BrowserContext) *Session {
	return &Session{
		pw:        pw,
		browser:   b,
		context:   bctx,
		pages:     make(map[browser.TabID]playwright.Page),
		ids:       make(map[playwright.Page]browser.TabID),
		badges:    make(map[browser.TabID]*badge),
		listeners: make(map[browser.TabID]Handler),
		observers: make(map[browser.TabID]func()),
		next:      1,
		events:    make(chan browser.Event, eventBuffer),
	}
}

// Events returns the tab lifecycle notifications.
func (s *Session) Events() <-chan browser.Event {
	return s.events
}

// Open creates a tab, navigates it to url and makes it active.
func (s *Session) Open(ctx context.Context, url string) (browser.TabID, error) {
	page, err := s.context.NewPage()
	if err != nil {
		return 0, fmt.Errorf("failed to create page: %w", err)
	}
	id := s.register(page)

	s.mu.Lock()
	s.active = id
	s.mu.Unlock()

	if url != "" {
		if _, err := page.Goto(url); err != nil {
			return id, fmt.Errorf("navigation failed: %w", err)
		}
	}
	return id, nil
}

// Activate brings a tab to the front.
func (s *Session) Activate(ctx context.Context, id browser.TabID) error {
	page, err := s.page(id)
	if err != nil {
		return err
	}
	if err := page.BringToFront(); err != nil {
		return fmt.Errorf("activating tab %d: %w", id, err)
	}
	s.focused(id)
	return nil
}

// focused makes id the active tab and emits Activated when it was not.
func (s *Session) focused(id browser.TabID) {
	s.mu.Lock()
	_, known := s.pages[id]
	if !known || s.active == id {
		s.mu.Unlock()
		return
	}
	s.active = id
	s.mu.Unlock()

	s.emit(browser.Activated{TabID: id})
}

func (s *Session) pageFocused(p playwright.Page) {
	s.mu.Lock()
	id, ok := s.ids[p]
	s.mu.Unlock()
	if ok {
		s.focused(id)
	}
}

// watchFocus installs the page hook that reports focus changes. It runs
// after every load since navigation drops page scripts.
func (s *Session) watchFocus(p playwright.Page) {
	if _, err := p.Evaluate(focusScript, focusBinding); err != nil {
		logging.Debug(subsystem, "installing focus hook: %v", err)
	}
}

// Listen installs the message handler of a tab.
func (s *Session) Listen(id browser.TabID, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[id] = h
}

// Close shuts down the browser and Playwright.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	if err := s.browser.Close(); err != nil {
		logging.Debug(subsystem, "closing browser: %v", err)
	}
	return s.pw.Stop()
}

// Active implements browser.Tabs.
func (s *Session) Active(ctx context.Context) (browser.Tab, error) {
	s.mu.Lock()
	id := s.active
	s.mu.Unlock()
	return s.Get(ctx, id)
}

// Get implements browser.Tabs.
func (s *Session) Get(ctx context.Context, id browser.TabID) (browser.Tab, error) {
	page, err := s.page(id)
	if err != nil {
		return browser.Tab{}, err
	}
	title, err := page.Title()
	if err != nil {
		logging.Debug(subsystem, "reading title of tab %d: %v", id, err)
	}

	s.mu.Lock()
	active := s.active == id
	s.mu.Unlock()

	return browser.Tab{ID: id, URL: page.URL(), Title: title, Active: active}, nil
}

// Update implements browser.Tabs.
func (s *Session) Update(ctx context.Context, id browser.TabID, url string) error {
	page, err := s.page(id)
	if err != nil {
		return err
	}
	if _, err := page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// All implements browser.Tabs.
func (s *Session) All(ctx context.Context) ([]browser.Tab, error) {
	s.mu.Lock()
	ids := make([]browser.TabID, 0, len(s.pages))
	for id := range s.pages {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tabs := make([]browser.Tab, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		tabs = append(tabs, t)
	}
	return tabs, nil
}

// Send implements browser.Tabs.
func (s *Session) Send(ctx context.Context, id browser.TabID, msg browser.Message) error {
	s.mu.Lock()
	h, ok := s.listeners[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("tab %d: %w", id, browser.ErrNoListener)
	}
	return h(ctx, msg)
}

func (s *Session) register(p playwright.Page) browser.TabID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.ids[p]; ok {
		return id
	}
	id := s.next
	s.next++
	s.pages[id] = p
	s.ids[p] = id
	if s.active == 0 {
		s.active = id
	}

	p.OnLoad(func(p playwright.Page) {
		s.emit(browser.Navigated{TabID: id, URL: p.URL()})
		go s.watchFocus(p)
	})
	p.OnClose(func(p playwright.Page) { s.unregister(id) })
	return id
}

func (s *Session) unregister(id browser.TabID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[id]; ok {
		delete(s.ids, p)
	}
	delete(s.pages, id)
	delete(s.badges, id)
	delete(s.listeners, id)
	delete(s.observers, id)
	if s.active == id {
		s.active = 0
	}
}

func (s *Session) page(id browser.TabID) (playwright.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, fmt.Errorf("tab %d: %w", id, browser.ErrNoTab)
	}
	return p, nil
}

func (s *Session) emit(ev browser.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		logging.Debug(subsystem, "event queue full, dropping %T for tab %d", ev, ev.Tab())
	}
}

func (s *Session) titleChanged(p playwright.Page) {
	s.mu.Lock()
	id, ok := s.ids[p]
	fn := s.observers[id]
	s.mu.Unlock()
	if ok && fn != nil {
		fn()
	}
}
