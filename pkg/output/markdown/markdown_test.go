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

package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func doc() environment.Document {
	dev := environment.NewRecord("Dev", "https://dev.service-now.com/", "#4caf50", "")
	acme := environment.NewRecord("Acme | Prod", "https://acme.service-now.com/", "#f44336", "Clients")
	acme.IsFavorite = true
	acme.Memo = "change freeze"
	for i := 0; i < 1500; i++ {
		acme.Touch(now.Add(-2 * time.Hour))
	}
	return environment.Document{Environments: []environment.Record{dev, acme}, Groups: []string{"Clients"}}
}

func TestRender_Textual(t *testing.T) {
	out, err := New().Render(doc(), output.RenderOptions{
		IncludeMetadata: true,
		CurrentURL:      "https://acme.service-now.com/incident.do",
		Now:             now,
	})
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "*Environments: 2 in 1 groups*")
	assert.Contains(t, s, "## Clients\n\n- ★ [Acme | Prod](https://acme.service-now.com/) `#f44336` **(current)** · 2 hours ago, 1,500 switches\n  > change freeze\n")
	assert.Contains(t, s, "## Ungrouped\n\n- [Dev](https://dev.service-now.com/) `#4caf50` · never\n")
	assert.Less(t, strings.Index(s, "## Clients"), strings.Index(s, "## Ungrouped"))
}

func TestRender_Table(t *testing.T) {
	a := New()
	require.NoError(t, a.Configure(output.Config{Options: map[string]interface{}{"style": "table"}}))

	out, err := a.Render(doc(), output.RenderOptions{Now: now})
	require.NoError(t, err)
	s := string(out)
	assert.NotContains(t, s, "Generated")
	assert.Contains(t, s, "| 2 | ★ Acme \\| Prod | https://acme.service-now.com/ | `#f44336` |")
	assert.Contains(t, s, "| 1 | Dev |")
}

func TestRender_EmptyAndBadStyle(t *testing.T) {
	out, err := New().Render(environment.Document{}, output.RenderOptions{Now: now})
	require.NoError(t, err)
	assert.Contains(t, string(out), "No environments registered.")

	_, err = New().Render(doc(), output.RenderOptions{Style: "yaml"})
	assert.Error(t, err)
}
