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

// Package titleprefix maintains a bracketed environment prefix on a page
// title, re-asserting it when page scripts overwrite the title.
package titleprefix

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/browser"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

const subsystem = "titleprefix"

var bracketed = regexp.MustCompile(`^\[.+?\]\s*`)

// Observer is a live title watcher.
type Observer interface {
	Disconnect() error
}

// Document is the page surface the controller runs against.
type Document interface {
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	SetTitle(ctx context.Context, title string) error

	// ObserveTitle calls fn whenever the title element changes.
	ObserveTitle(ctx context.Context, fn func()) (Observer, error)
}

// Source supplies the stored settings and environments.
type Source interface {
	PrefixEnabled(ctx context.Context) (bool, error)
	Environments(ctx context.Context) ([]environment.Record, error)
}

// Controller owns the single title observer of one page.
type Controller struct {
	source Source
	doc    Document

	mu       sync.Mutex
	observer Observer
	prefix   string
}

// New creates a controller for doc.
func New(source Source, doc Document) *Controller {
	return &Controller{source: source, doc: doc}
}

// Strip removes one leading bracketed prefix and the whitespace after it.
func Strip(title string) string {
	return bracketed.ReplaceAllString(title, "")
}

// stripKnown removes the first of prefixes that title carries in brackets.
// Names may contain "]", so a known prefix is tried before Strip.
func stripKnown(title string, prefixes ...string) string {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(title, "["+p+"]"); ok {
			return strings.TrimLeftFunc(rest, unicode.IsSpace)
		}
	}
	return Strip(title)
}

// Format prepends prefix in brackets to title.
func Format(prefix, title string) string {
	return fmt.Sprintf("[%s] %s", prefix, title)
}

// Apply brings the title in line with the current settings and page URL.
// Running it again with unchanged inputs leaves the title as is.
func (c *Controller) Apply(ctx context.Context) error {
	enabled, err := c.source.PrefixEnabled(ctx)
	if err != nil {
		return err
	}
	records, err := c.source.Environments(ctx)
	if err != nil {
		return err
	}
	url, err := c.doc.URL(ctx)
	if err != nil {
		return fmt.Errorf("reading page url: %w", err)
	}
	title, err := c.doc.Title(ctx)
	if err != nil {
		return fmt.Errorf("reading title: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	env, _, ok := environment.Match(url, records)
	var prefix string
	if ok {
		prefix = environment.TitlePrefix(env.Name)
	}
	stripped := stripKnown(title, prefix, c.prefix)
	if !enabled || !ok {
		c.disconnect()
		if stripped != title {
			return c.doc.SetTitle(ctx, stripped)
		}
		return nil
	}

	// The old observer may enforce a different prefix.
	c.disconnect()

	if want := Format(prefix, stripped); want != title {
		if err := c.doc.SetTitle(ctx, want); err != nil {
			return fmt.Errorf("setting title: %w", err)
		}
	}

	watchCtx := context.WithoutCancel(ctx)
	obs, err := c.doc.ObserveTitle(ctx, func() { c.reassert(watchCtx, prefix) })
	if err != nil {
		logging.Debug(subsystem, "title observer not installed: %v", err)
		return nil
	}
	c.observer = obs
	c.prefix = prefix
	return nil
}

// Handle reacts to a message sent to the page.
func (c *Controller) Handle(ctx context.Context, msg browser.Message) error {
	if msg != browser.MessageUpdatePrefix {
		return nil
	}
	return c.Apply(ctx)
}

// Prefix returns the prefix the live observer enforces, if any.
func (c *Controller) Prefix() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefix, c.observer != nil
}

// Close uninstalls the observer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnect()
}

func (c *Controller) disconnect() {
	if c.observer == nil {
		return
	}
	if err := c.observer.Disconnect(); err != nil {
		logging.Debug(subsystem, "disconnecting title observer: %v", err)
	}
	c.observer = nil
	c.prefix = ""
}

func (c *Controller) reassert(ctx context.Context, prefix string) {
	title, err := c.doc.Title(ctx)
	if err != nil {
		logging.Debug(subsystem, "reading title: %v", err)
		return
	}
	if strings.HasPrefix(title, "["+prefix+"]") {
		return
	}
	if err := c.doc.SetTitle(ctx, Format(prefix, stripKnown(title, prefix))); err != nil {
		logging.Debug(subsystem, "re-applying prefix: %v", err)
	}
}
