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

// Package browser defines the tab and action surface the controllers
// consume. Drivers live in subpackages.
package browser

import (
	"context"
	"errors"
	"image"
)

// TabID identifies a tab within a driver session.
type TabID int

// Tab is a snapshot of a browser tab.
type Tab struct {
	ID     TabID
	URL    string
	Title  string
	Active bool
}

// Message is a command delivered to a tab's page context.
type Message string

// MessageUpdatePrefix asks a page to re-run the title prefix routine.
const MessageUpdatePrefix Message = "updatePrefix"

var (
	// ErrNoTab is returned when a tab id is unknown or no tab is active.
	ErrNoTab = errors.New("no such tab")

	// ErrNoListener is returned by Send when the tab has no page handler.
	ErrNoListener = errors.New("tab has no message listener")
)

// Tabs is the tab query and navigation surface.
type Tabs interface {
	// Active returns the active tab of the current window.
	Active(ctx context.Context) (Tab, error)

	// Get returns the tab with the given id.
	Get(ctx context.Context, id TabID) (Tab, error)

	// Update navigates the tab to url.
	Update(ctx context.Context, id TabID, url string) error

	// All returns every open tab.
	All(ctx context.Context) ([]Tab, error)

	// Send delivers msg to the tab's page context.
	Send(ctx context.Context, id TabID, msg Message) error
}

// Icon is either a generated bitmap or a set of packaged icon paths
// keyed by pixel size.
type Icon struct {
	Image image.Image
	Paths map[int]string
}

// DefaultIcon is the packaged icon set.
func DefaultIcon() Icon {
	return Icon{Paths: map[int]string{
		16:  "icons/icon16.png",
		48:  "icons/icon48.png",
		128: "icons/icon128.png",
	}}
}

// Action is the per-tab badge and icon surface.
type Action interface {
	SetBadgeText(ctx context.Context, id TabID, text string) error
	SetBadgeColor(ctx context.Context, id TabID, color string) error
	SetIcon(ctx context.Context, id TabID, icon Icon) error
}

// Event is a tab lifecycle notification.
type Event interface {
	Tab() TabID
}

// Navigated is emitted when navigation in a tab completes.
type Navigated struct {
	TabID TabID
	URL   string
}

// Tab implements Event.
func (e Navigated) Tab() TabID { return e.TabID }

// Activated is emitted when a tab becomes the active tab.
type Activated struct {
	TabID TabID
}

// Tab implements Event.
func (e Activated) Tab() TabID { return e.TabID }
