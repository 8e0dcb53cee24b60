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

package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/output"
)

func TestRender_IsImportFormat(t *testing.T) {
	doc := environment.Document{
		Environments: []environment.Record{environment.NewRecord("Dev", "https://dev.service-now.com/", "#4caf50", "")},
	}
	want, err := doc.Marshal()
	require.NoError(t, err)

	got, err := New().Render(doc, output.DefaultRenderOptions())
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	parsed, err := environment.ParseDocument(got)
	require.NoError(t, err)
	assert.Equal(t, []string{}, parsed.Groups)
	assert.Equal(t, "Dev", parsed.Environments[0].Name)
}
