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

// Package switcher implements the user-facing operations over the stored
// environments: record and group editing, switching, import and export.
//
// Records are addressed by position. Every mutation re-reads the whole
// collection and writes it back without a lock, so overlapping writers
// lose updates (last write wins).
package switcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/browser"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/listview"
	"github.com/cloudygreybeard/envswitch/pkg/store"
)

const subsystem = "switcher"

// DefaultColor is used when a form leaves the color empty.
const DefaultColor = "#4caf50"

var (
	// ErrNoPendingEdit is returned by SaveEdit without a prior BeginEdit.
	ErrNoPendingEdit = errors.New("no environment is being edited")

	// ErrInvalidSetting is returned for an unknown theme value.
	ErrInvalidSetting = errors.New("invalid setting value")

	// ErrImportFailed wraps every error that rejects an import file.
	ErrImportFailed = errors.New("import failed")
)

// Prompter is the interactive surface for confirmations and messages.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Prompt(ctx context.Context, message, def string) (string, error)
	Alert(ctx context.Context, message string) error
}

// Form carries the user-editable fields of a record.
type Form struct {
	Name  string
	URL   string
	Color string
	Group string
	Memo  string
}

// PendingEdit is the record selected by BeginEdit.
type PendingEdit struct {
	Index  int
	Record environment.Record
}

// File is an export ready to be written or downloaded.
type File struct {
	Name string
	Data []byte
}

// Option configures a Controller.
type Option func(*Controller)

// WithAllowList replaces the accepted URL substrings.
func WithAllowList(list []string) Option {
	return func(c *Controller) {
		if len(list) > 0 {
			c.allow = list
		}
	}
}

// WithClock sets the time source used for visits and export names.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller is the only writer of the environment store.
type Controller struct {
	store  *store.Store
	tabs   browser.Tabs
	prompt Prompter
	allow  []string
	now    func() time.Time

	mu      sync.Mutex
	pending *PendingEdit
}

// New creates a controller.
func New(s *store.Store, tabs browser.Tabs, prompt Prompter, opts ...Option) *Controller {
	c := &Controller{
		store:  s,
		tabs:   tabs,
		prompt: prompt,
		allow:  environment.DefaultAllowList,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AllowList returns the accepted URL substrings.
func (c *Controller) AllowList() []string {
	return c.allow
}

// View builds the display model for the stored environments.
func (c *Controller) View(ctx context.Context, currentURL string) (listview.View, error) {
	doc, err := c.store.Document(ctx)
	if err != nil {
		return listview.View{}, err
	}
	return listview.Build(doc.Environments, doc.Groups, currentURL, c.now()), nil
}

// Add registers a new environment and returns its position.
func (c *Controller) Add(ctx context.Context, form Form) (int, error) {
	form = normalize(form)
	if err := environment.ValidateInput(form.Name, form.URL, c.allow); err != nil {
		return -1, err
	}

	doc, err := c.store.Document(ctx)
	if err != nil {
		return -1, err
	}
	if err := requireGroup(doc.Groups, form.Group); err != nil {
		return -1, err
	}

	r := environment.NewRecord(form.Name, form.URL, form.Color, form.Group)
	r.Memo = form.Memo
	records := append(doc.Environments, r)
	if err := c.store.SetEnvironments(ctx, records); err != nil {
		return -1, err
	}

	logging.Info(subsystem, "added environment %s (%s)", r.Name, r.URL)
	c.Broadcast(ctx)
	return len(records) - 1, nil
}

// BeginEdit selects the record at i for editing.
func (c *Controller) BeginEdit(ctx context.Context, i int) (PendingEdit, error) {
	records, err := c.store.Environments(ctx)
	if err != nil {
		return PendingEdit{}, err
	}
	if err := checkIndex(i, len(records)); err != nil {
		return PendingEdit{}, err
	}

	edit := PendingEdit{Index: i, Record: records[i]}
	c.mu.Lock()
	c.pending = &edit
	c.mu.Unlock()
	return edit, nil
}

// Pending returns the record being edited, if any.
func (c *Controller) Pending() (PendingEdit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PendingEdit{}, false
	}
	return *c.pending, true
}

// CancelEdit discards the pending edit.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// SaveEdit replaces the editable fields of the pending record. Favorite
// status and access stats are kept.
func (c *Controller) SaveEdit(ctx context.Context, form Form) error {
	edit, ok := c.Pending()
	if !ok {
		return ErrNoPendingEdit
	}

	form = normalize(form)
	if err := environment.ValidateInput(form.Name, form.URL, c.allow); err != nil {
		return err
	}

	doc, err := c.store.Document(ctx)
	if err != nil {
		return err
	}
	if err := checkIndex(edit.Index, len(doc.Environments)); err != nil {
		return err
	}
	if err := requireGroup(doc.Groups, form.Group); err != nil {
		return err
	}

	r := &doc.Environments[edit.Index]
	r.Name = form.Name
	r.URL = form.URL
	r.Color = form.Color
	r.Group = form.Group
	r.Memo = form.Memo

	if err := c.store.SetEnvironments(ctx, doc.Environments); err != nil {
		return err
	}
	c.CancelEdit()
	c.Broadcast(ctx)
	return nil
}

// Delete removes the record at i after confirmation. It reports whether
// the record was removed.
func (c *Controller) Delete(ctx context.Context, i int) (bool, error) {
	records, err := c.store.Environments(ctx)
	if err != nil {
		return false, err
	}
	if err := checkIndex(i, len(records)); err != nil {
		return false, err
	}

	ok, err := c.prompt.Confirm(ctx, fmt.Sprintf("Delete environment %q?", records[i].Name))
	if err != nil || !ok {
		return false, err
	}

	// Re-read: the list may have changed while the prompt was open.
	records, err = c.store.Environments(ctx)
	if err != nil {
		return false, err
	}
	if err := checkIndex(i, len(records)); err != nil {
		return false, err
	}

	removed := records[i]
	records = append(records[:i], records[i+1:]...)
	if err := c.store.SetEnvironments(ctx, records); err != nil {
		return false, err
	}

	logging.Info(subsystem, "deleted environment %s", removed.Name)
	c.Broadcast(ctx)
	return true, nil
}

// Switch records a visit to the environment at i and navigates the active
// tab to it. It returns the navigation target.
func (c *Controller) Switch(ctx context.Context, i int) (string, error) {
	records, err := c.store.Environments(ctx)
	if err != nil {
		return "", err
	}
	if err := checkIndex(i, len(records)); err != nil {
		return "", err
	}
	settings, err := c.store.Settings(ctx)
	if err != nil {
		return "", err
	}
	tab, err := c.tabs.Active(ctx)
	if err != nil {
		return "", fmt.Errorf("finding active tab: %w", err)
	}

	target := Target(records[i].URL, tab.URL, settings.PreservePath, c.allow)

	records[i].Touch(c.now())
	if err := c.store.SetEnvironments(ctx, records); err != nil {
		return "", err
	}

	if err := c.tabs.Update(ctx, tab.ID, target); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", target, err)
	}
	logging.Debug(subsystem, "switched tab %d to %s", tab.ID, target)
	return target, nil
}

// Target computes where a switch from current to base navigates. With
// preserve set and current on an accepted URL, base keeps its scheme, host
// and port and takes current's path, query and fragment.
func Target(base, current string, preserve bool, allow []string) string {
	if !preserve || current == "" || !environment.Allowed(current, allow) {
		return base
	}

	t, err := url.Parse(base)
	if err != nil || t.Host == "" {
		return base
	}
	cur, err := url.Parse(current)
	if err != nil || cur.Host == "" {
		return base
	}

	t.Path = cur.Path
	t.RawPath = cur.RawPath
	t.RawQuery = cur.RawQuery
	t.ForceQuery = cur.ForceQuery
	t.Fragment = cur.Fragment
	t.RawFragment = cur.RawFragment
	return t.String()
}

// ToggleFavorite flips the favorite flag at i and returns the new value.
func (c *Controller) ToggleFavorite(ctx context.Context, i int) (bool, error) {
	records, err := c.store.Environments(ctx)
	if err != nil {
		return false, err
	}
	if err := checkIndex(i, len(records)); err != nil {
		return false, err
	}

	records[i].IsFavorite = !records[i].IsFavorite
	if err := c.store.SetEnvironments(ctx, records); err != nil {
		return false, err
	}
	c.Broadcast(ctx)
	return records[i].IsFavorite, nil
}

// Move places the record at from at position to.
func (c *Controller) Move(ctx context.Context, from, to int) error {
	records, err := c.store.Environments(ctx)
	if err != nil {
		return err
	}
	if err := checkIndex(from, len(records)); err != nil {
		return err
	}
	if err := checkIndex(to, len(records)); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	if err := c.store.SetEnvironments(ctx, move(records, from, to)); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}

// Broadcast asks every open tab to refresh its title prefix. Delivery
// failures are ignored.
func (c *Controller) Broadcast(ctx context.Context) {
	if c.tabs == nil {
		return
	}
	tabs, err := c.tabs.All(ctx)
	if err != nil {
		logging.Debug(subsystem, "listing tabs: %v", err)
		return
	}
	for _, t := range tabs {
		if err := c.tabs.Send(ctx, t.ID, browser.MessageUpdatePrefix); err != nil {
			logging.Debug(subsystem, "notifying tab %d: %v", t.ID, err)
		}
	}
}

func normalize(f Form) Form {
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	f.Color = strings.TrimSpace(f.Color)
	f.Group = strings.TrimSpace(f.Group)
	if f.Color == "" {
		f.Color = DefaultColor
	}
	return f
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%d: %w", i+1, environment.ErrIndexOutOfRange)
	}
	return nil
}

func requireGroup(groups []string, name string) error {
	if name == "" || indexOf(groups, name) >= 0 {
		return nil
	}
	return fmt.Errorf("%s: %w", name, environment.ErrGroupNotFound)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func move[T any](list []T, from, to int) []T {
	item := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list[:to], append([]T{item}, list[to:]...)...)
	return list
}
