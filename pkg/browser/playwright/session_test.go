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
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"

	"github.com/cloudygreybeard/envswitch/pkg/browser"
)

func TestFocused_EmitsActivated(t *testing.T) {
	s := newSession(nil, nil, nil)
	s.pages[1] = playwright.Page(nil)
	s.pages[2] = playwright.Page(nil)
	s.active = 1

	s.focused(2)
	assert.Equal(t, browser.TabID(2), s.active)
	if assert.Len(t, s.events, 1) {
		assert.Equal(t, browser.Activated{TabID: 2}, <-s.events)
	}

	s.focused(2)
	assert.Len(t, s.events, 0, "refocusing the active tab is silent")

	s.focused(7)
	assert.Equal(t, browser.TabID(2), s.active, "unknown tabs are ignored")
	assert.Len(t, s.events, 0)
}

func TestFocused_AfterClose(t *testing.T) {
	s := newSession(nil, nil, nil)
	s.pages[1] = playwright.Page(nil)
	s.pages[2] = playwright.Page(nil)
	s.active = 1
	s.closed = true

	s.focused(2)
	assert.Equal(t, browser.TabID(2), s.active)
	assert.Len(t, s.events, 0)
}
