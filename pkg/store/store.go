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

// Package store provides the Environment Store over a key-value surface.
//
// The key-value surface mirrors a browser extension's synced storage area:
// whole values are read and written by key, there are no transactions and
// no partial-key locking. Store adds typed accessors for the persisted
// layout:
//
//	{
//	  environments:   Record[],
//	  groups:         string[],
//	  theme:          string,
//	  preserveRecord: bool,
//	  prefixEnabled:  bool
//	}
//
// Every mutation in this module is a read-modify-write of a whole
// collection. Two writers interleaving between the read and the write lose
// one update; the last write wins. That race is accepted and deliberately
// not detected.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// Persisted keys.
const (
	KeyEnvironments   = "environments"
	KeyGroups         = "groups"
	KeyTheme          = "theme"
	KeyPreserveRecord = "preserveRecord"
	KeyPrefixEnabled  = "prefixEnabled"
)

// KV is the key-value storage surface.
type KV interface {
	// Get returns the stored values for keys. Absent keys are omitted.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)

	// Set stores each value, JSON-encoded, under its key.
	Set(ctx context.Context, values map[string]any) error
}

// Store provides typed access to the persisted environment data.
type Store struct {
	kv KV
}

// New wraps a key-value surface.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Environments returns the stored environment list, or an empty list.
func (s *Store) Environments(ctx context.Context) ([]environment.Record, error) {
	values, err := s.kv.Get(ctx, KeyEnvironments)
	if err != nil {
		return nil, fmt.Errorf("reading environments: %w", err)
	}
	records := []environment.Record{}
	if raw, ok := values[KeyEnvironments]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding environments: %w", err)
		}
	}
	return records, nil
}

// SetEnvironments replaces the stored environment list.
func (s *Store) SetEnvironments(ctx context.Context, records []environment.Record) error {
	if records == nil {
		records = []environment.Record{}
	}
	if err := s.kv.Set(ctx, map[string]any{KeyEnvironments: records}); err != nil {
		return fmt.Errorf("writing environments: %w", err)
	}
	return nil
}

// Groups returns the stored group names, or an empty list.
func (s *Store) Groups(ctx context.Context) ([]string, error) {
	values, err := s.kv.Get(ctx, KeyGroups)
	if err != nil {
		return nil, fmt.Errorf("reading groups: %w", err)
	}
	groups := []string{}
	if raw, ok := values[KeyGroups]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &groups); err != nil {
			return nil, fmt.Errorf("decoding groups: %w", err)
		}
	}
	return groups, nil
}

// SetGroups replaces the stored group names.
func (s *Store) SetGroups(ctx context.Context, groups []string) error {
	if groups == nil {
		groups = []string{}
	}
	if err := s.kv.Set(ctx, map[string]any{KeyGroups: groups}); err != nil {
		return fmt.Errorf("writing groups: %w", err)
	}
	return nil
}

// Document reads both collections.
func (s *Store) Document(ctx context.Context) (environment.Document, error) {
	values, err := s.kv.Get(ctx, KeyEnvironments, KeyGroups)
	if err != nil {
		return environment.Document{}, fmt.Errorf("reading document: %w", err)
	}
	doc := environment.Document{Environments: []environment.Record{}, Groups: []string{}}
	if raw, ok := values[KeyEnvironments]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Environments); err != nil {
			return environment.Document{}, fmt.Errorf("decoding environments: %w", err)
		}
	}
	if raw, ok := values[KeyGroups]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &doc.Groups); err != nil {
			return environment.Document{}, fmt.Errorf("decoding groups: %w", err)
		}
	}
	return doc, nil
}

// SetDocument writes both collections in a single Set call.
func (s *Store) SetDocument(ctx context.Context, doc environment.Document) error {
	if doc.Environments == nil {
		doc.Environments = []environment.Record{}
	}
	if doc.Groups == nil {
		doc.Groups = []string{}
	}
	err := s.kv.Set(ctx, map[string]any{
		KeyEnvironments: doc.Environments,
		KeyGroups:       doc.Groups,
	})
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Settings returns the stored settings. Each absent key takes its default.
func (s *Store) Settings(ctx context.Context) (environment.Settings, error) {
	cfg := environment.DefaultSettings()

	values, err := s.kv.Get(ctx, KeyTheme, KeyPreserveRecord, KeyPrefixEnabled)
	if err != nil {
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if raw, ok := values[KeyTheme]; ok {
		var theme string
		if err := json.Unmarshal(raw, &theme); err == nil && environment.Theme(theme).Valid() {
			cfg.Theme = environment.Theme(theme)
		}
	}
	cfg.PreservePath = boolOr(values, KeyPreserveRecord, true)
	cfg.PrefixEnabled = boolOr(values, KeyPrefixEnabled, true)

	return cfg, nil
}

// PrefixEnabled returns the title-prefix setting.
func (s *Store) PrefixEnabled(ctx context.Context) (bool, error) {
	values, err := s.kv.Get(ctx, KeyPrefixEnabled)
	if err != nil {
		return true, fmt.Errorf("reading %s: %w", KeyPrefixEnabled, err)
	}
	return boolOr(values, KeyPrefixEnabled, true), nil
}

// SetTheme stores the theme.
func (s *Store) SetTheme(ctx context.Context, theme environment.Theme) error {
	return s.setValue(ctx, KeyTheme, string(theme))
}

// SetPreservePath stores the preserve-path-on-switch flag.
func (s *Store) SetPreservePath(ctx context.Context, enabled bool) error {
	return s.setValue(ctx, KeyPreserveRecord, enabled)
}

// SetPrefixEnabled stores the show-title-prefix flag.
func (s *Store) SetPrefixEnabled(ctx context.Context, enabled bool) error {
	return s.setValue(ctx, KeyPrefixEnabled, enabled)
}

func (s *Store) setValue(ctx context.Context, key string, value any) error {
	if err := s.kv.Set(ctx, map[string]any{key: value}); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// boolOr decodes a boolean value. Only an explicit false disables a flag;
// anything else, including an undecodable value, yields def.
func boolOr(values map[string]json.RawMessage, key string, def bool) bool {
	raw, ok := values[key]
	if !ok || isNull(raw) {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
