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

// Package indicator keeps each tab's badge and icon in line with the
// environment its URL belongs to.
package indicator

import (
	"context"
	"fmt"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/browser"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

const subsystem = "indicator"

// Source supplies the stored environment list.
type Source interface {
	Environments(ctx context.Context) ([]environment.Record, error)
}

// Controller renders badge state per tab.
type Controller struct {
	source Source
	tabs   browser.Tabs
	action browser.Action
}

// New creates a controller.
func New(source Source, tabs browser.Tabs, action browser.Action) *Controller {
	return &Controller{source: source, tabs: tabs, action: action}
}

// Handle re-evaluates the tab named by ev.
func (c *Controller) Handle(ctx context.Context, ev browser.Event) error {
	switch e := ev.(type) {
	case browser.Navigated:
		if e.URL == "" {
			return nil
		}
		return c.Refresh(ctx, e.TabID, e.URL)
	case browser.Activated:
		tab, err := c.tabs.Get(ctx, e.TabID)
		if err != nil {
			return fmt.Errorf("resolving activated tab: %w", err)
		}
		if tab.URL == "" {
			return nil
		}
		return c.Refresh(ctx, tab.ID, tab.URL)
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
}

// Run dispatches events until the channel closes or ctx is done.
// Per-event failures are logged and do not stop the loop.
func (c *Controller) Run(ctx context.Context, events <-chan browser.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Handle(ctx, ev); err != nil {
				logging.Warn(subsystem, "tab %d: %v", ev.Tab(), err)
			}
		}
	}
}

// Refresh renders the badge and icon for a tab showing url.
func (c *Controller) Refresh(ctx context.Context, id browser.TabID, url string) error {
	records, err := c.source.Environments(ctx)
	if err != nil {
		return err
	}

	env, _, ok := environment.Match(url, records)
	if !ok {
		if err := c.action.SetBadgeText(ctx, id, ""); err != nil {
			return fmt.Errorf("clearing badge: %w", err)
		}
		if err := c.action.SetIcon(ctx, id, browser.DefaultIcon()); err != nil {
			logging.Debug(subsystem, "restoring default icon for tab %d: %v", id, err)
		}
		return nil
	}

	if err := c.action.SetBadgeText(ctx, id, environment.BadgeText(env.Name)); err != nil {
		return fmt.Errorf("setting badge text: %w", err)
	}
	if err := c.action.SetBadgeColor(ctx, id, env.Color); err != nil {
		logging.Debug(subsystem, "setting badge color %q: %v", env.Color, err)
	}

	img, err := Glyph(env.Color)
	if err != nil {
		logging.Debug(subsystem, "generating icon for %s: %v", env.Name, err)
		return nil
	}
	if err := c.action.SetIcon(ctx, id, browser.Icon{Image: img}); err != nil {
		logging.Debug(subsystem, "setting icon for tab %d: %v", id, err)
	}
	return nil
}

// Jump navigates the active tab to the environment at 1-based position n.
// Positions outside the list are logged and ignored.
func (c *Controller) Jump(ctx context.Context, n int) error {
	records, err := c.source.Environments(ctx)
	if err != nil {
		return err
	}
	if n < 1 || n > len(records) {
		logging.Info(subsystem, "no environment at position %d", n)
		return nil
	}

	tab, err := c.tabs.Active(ctx)
	if err != nil {
		return fmt.Errorf("finding active tab: %w", err)
	}
	return c.tabs.Update(ctx, tab.ID, records[n-1].URL)
}
