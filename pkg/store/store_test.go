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

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

func TestStore_EmptyDefaults(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	envs, err := s.Environments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, envs)
	assert.Empty(t, envs)

	groups, err := s.Groups(ctx)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)

	settings, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, environment.DefaultSettings(), settings)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	records := []environment.Record{
		environment.NewRecord("Dev", "https://dev.service-now.com", "#4caf50", "G1"),
	}
	require.NoError(t, s.SetEnvironments(ctx, records))
	require.NoError(t, s.SetGroups(ctx, []string{"G1"}))

	doc, err := s.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, doc.Environments)
	assert.Equal(t, []string{"G1"}, doc.Groups)

	// Mutating a read copy must not affect the store.
	doc.Environments[0].Name = "changed"
	again, err := s.Environments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dev", again[0].Name)
}

func TestStore_SetDocument(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	require.NoError(t, s.SetDocument(ctx, environment.Document{}))
	doc, err := s.Document(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Environments)
	assert.Empty(t, doc.Groups)
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	require.NoError(t, s.SetTheme(ctx, environment.ThemeDark))
	require.NoError(t, s.SetPreservePath(ctx, false))
	require.NoError(t, s.SetPrefixEnabled(ctx, false))

	settings, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, environment.ThemeDark, settings.Theme)
	assert.False(t, settings.PreservePath)
	assert.False(t, settings.PrefixEnabled)

	enabled, err := s.PrefixEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestStore_SettingsIgnoreBadValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, map[string]any{
		KeyTheme:          "neon",
		KeyPrefixEnabled:  "yes",
		KeyPreserveRecord: nil,
	}))

	settings, err := New(kv).Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, environment.DefaultSettings(), settings)
}

func TestStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())
	require.NoError(t, s.SetEnvironments(ctx, []environment.Record{{Name: "A"}}))

	// Two writers read the same snapshot and write back independently.
	first, err := s.Environments(ctx)
	require.NoError(t, err)
	second, err := s.Environments(ctx)
	require.NoError(t, err)

	first = append(first, environment.Record{Name: "B"})
	second = append(second, environment.Record{Name: "C"})
	require.NoError(t, s.SetEnvironments(ctx, first))
	require.NoError(t, s.SetEnvironments(ctx, second))

	final, err := s.Environments(ctx)
	require.NoError(t, err)
	require.Len(t, final, 2)
	assert.Equal(t, "C", final[1].Name)
}
