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

package playwright

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"github.com/cloudygreybeard/envswitch/pkg/browser"
	"github.com/cloudygreybeard/envswitch/pkg/titleprefix"
)

const (
	badgeScript = `({text, color}) => {
  let el = document.getElementById('envswitch-badge');
  if (!text) { if (el) el.remove(); return; }
  if (!el) {
    el = document.createElement('div');
    el.id = 'envswitch-badge';
    el.style.cssText = 'position:fixed;top:8px;right:8px;z-index:2147483647;' +
      'padding:2px 6px;border-radius:4px;font:bold 12px sans-serif;color:#fff;pointer-events:none';
    document.documentElement.appendChild(el);
  }
  el.textContent = text;
  el.style.background = color || '#666';
}`

	iconScript = `(href) => {
  let el = document.getElementById('envswitch-icon');
  if (!href) { if (el) el.remove(); return; }
  if (!el) {
    el = document.createElement('link');
    el.id = 'envswitch-icon';
    el.rel = 'icon';
    (document.head || document.documentElement).appendChild(el);
  }
  el.href = href;
}`

	setTitleScript = `(t) => { document.title = t; }`

	observeScript = `(name) => {
  if (window.__envswitchTitleObserver) window.__envswitchTitleObserver.disconnect();
  const el = document.querySelector('title');
  if (!el) return false;
  const obs = new MutationObserver(() => window[name]());
  obs.observe(el, {childList: true, characterData: true, subtree: true});
  window.__envswitchTitleObserver = obs;
  return true;
}`

	focusScript = `(name) => {
  if (window.__envswitchFocusHooked) return;
  window.__envswitchFocusHooked = true;
  const report = () => { if (document.visibilityState === 'visible') window[name](); };
  document.addEventListener('visibilitychange', report);
  window.addEventListener('focus', report);
  if (document.visibilityState === 'visible' && document.hasFocus()) report();
}`

	disconnectScript = `() => {
  if (window.__envswitchTitleObserver) window.__envswitchTitleObserver.disconnect();
  window.__envswitchTitleObserver = null;
}`
)

var errNoTitleElement = errors.New("page has no title element")

// SetBadgeText implements browser.Action.
func (s *Session) SetBadgeText(ctx context.Context, id browser.TabID, text string) error {
	b := s.badge(id, func(b *badge) { b.text = text })
	return s.renderBadge(id, b)
}

// SetBadgeColor implements browser.Action.
func (s *Session) SetBadgeColor(ctx context.Context, id browser.TabID, color string) error {
	b := s.badge(id, func(b *badge) { b.color = color })
	return s.renderBadge(id, b)
}

// SetIcon implements browser.Action. A generated image becomes the page
// favicon; a path set restores the page's own icon.
func (s *Session) SetIcon(ctx context.Context, id browser.TabID, icon browser.Icon) error {
	page, err := s.page(id)
	if err != nil {
		return err
	}

	href := ""
	if icon.Image != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, icon.Image); err != nil {
			return fmt.Errorf("encoding icon: %w", err)
		}
		href = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	if _, err := page.Evaluate(iconScript, href); err != nil {
		return fmt.Errorf("setting icon: %w", err)
	}
	return nil
}

func (s *Session) badge(id browser.TabID, update func(*badge)) badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.badges[id]
	if !ok {
		b = &badge{}
		s.badges[id] = b
	}
	update(b)
	return *b
}

func (s *Session) renderBadge(id browser.TabID, b badge) error {
	page, err := s.page(id)
	if err != nil {
		return err
	}
	_, err = page.Evaluate(badgeScript, map[string]interface{}{
		"text":  b.text,
		"color": b.color,
	})
	if err != nil {
		return fmt.Errorf("rendering badge: %w", err)
	}
	return nil
}

// Document is the page context of one tab.
type Document struct {
	session *Session
	id      browser.TabID
}

var _ titleprefix.Document = (*Document)(nil)

// Document returns the page context of a tab.
func (s *Session) Document(id browser.TabID) (*Document, error) {
	if _, err := s.page(id); err != nil {
		return nil, err
	}
	return &Document{session: s, id: id}, nil
}

// URL returns the page URL.
func (d *Document) URL(ctx context.Context) (string, error) {
	page, err := d.session.page(d.id)
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

// Title returns the document title.
func (d *Document) Title(ctx context.Context) (string, error) {
	page, err := d.session.page(d.id)
	if err != nil {
		return "", err
	}
	return page.Title()
}

// SetTitle replaces the document title.
func (d *Document) SetTitle(ctx context.Context, title string) error {
	page, err := d.session.page(d.id)
	if err != nil {
		return err
	}
	_, err = page.Evaluate(setTitleScript, title)
	return err
}

// ObserveTitle installs a MutationObserver on the title element that calls
// fn on every change. Any previous observer of the page is replaced.
func (d *Document) ObserveTitle(ctx context.Context, fn func()) (titleprefix.Observer, error) {
	page, err := d.session.page(d.id)
	if err != nil {
		return nil, err
	}

	d.session.mu.Lock()
	d.session.observers[d.id] = fn
	d.session.mu.Unlock()

	ok, err := page.Evaluate(observeScript, titleBinding)
	if err != nil {
		d.forget()
		return nil, fmt.Errorf("installing title observer: %w", err)
	}
	if installed, _ := ok.(bool); !installed {
		d.forget()
		return nil, errNoTitleElement
	}
	return &observer{doc: d}, nil
}

func (d *Document) forget() {
	d.session.mu.Lock()
	delete(d.session.observers, d.id)
	d.session.mu.Unlock()
}

type observer struct {
	doc *Document
}

func (o *observer) Disconnect() error {
	o.doc.forget()
	page, err := o.doc.session.page(o.doc.id)
	if err != nil {
		return nil
	}
	_, err = page.Evaluate(disconnectScript)
	return err
}
