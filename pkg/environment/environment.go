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

// Package environment provides the core environment model.
//
// An environment is a registered target site (name, base URL, color and
// usage metadata) that a browser tab can be switched to. This package
// defines the records that flow between the store, the controllers and the
// renderers, plus the pure helpers every other component depends on:
// domain matching, allow-list validation and badge/prefix derivation.
//
// # Core Types
//
// Record is a single registered environment:
//
//	r := environment.Record{
//	    Name:  "Development",
//	    URL:   "https://dev12345.service-now.com/",
//	    Color: "#4caf50",
//	    Group: "Customer A",
//	}
//
// Document is the import/export shape, {environments, groups}:
//
//	doc := environment.Document{
//	    Environments: records,
//	    Groups:       []string{"Customer A"},
//	}
//
// # Identity
//
// Records have no id. Position in the stored sequence is the only identity,
// so any operation that removes or reorders a record must be applied to a
// freshly read copy of the list.
package environment

import (
	"time"
)

// Record represents a single registered environment.
//
// JSON field names match the persisted layout, so records written by older
// versions load without migration.
type Record struct {
	// Name is the short display label.
	Name string `json:"name" yaml:"name"`

	// URL is the base URL used both for matching (by hostname) and as the
	// navigation target.
	URL string `json:"url" yaml:"url"`

	// Color is a color token used for the badge background and list styling.
	Color string `json:"color" yaml:"color"`

	// Group is the owning group name. Empty means ungrouped.
	Group string `json:"group" yaml:"group,omitempty"`

	// IsFavorite sorts the record ahead of non-favorites.
	IsFavorite bool `json:"isFavorite" yaml:"favorite,omitempty"`

	// LastAccessed is the last switch time in epoch milliseconds.
	// Nil means never accessed.
	LastAccessed *int64 `json:"lastAccessed" yaml:"last_accessed,omitempty"`

	// AccessCount is incremented on every switch.
	AccessCount int `json:"accessCount" yaml:"access_count,omitempty"`

	// Memo is an optional free-text annotation.
	Memo string `json:"memo" yaml:"memo,omitempty"`
}

// Document is the import/export representation of the stored data.
type Document struct {
	Environments []Record `json:"environments" yaml:"environments"`
	Groups       []string `json:"groups" yaml:"groups"`
}

// Theme is the UI theme setting.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Settings holds the independent scalar preferences.
type Settings struct {
	Theme         Theme `json:"theme" yaml:"theme"`
	PreservePath  bool  `json:"preserveRecord" yaml:"preserve_path"`
	PrefixEnabled bool  `json:"prefixEnabled" yaml:"prefix_enabled"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeLight,
		PreservePath:  true,
		PrefixEnabled: true,
	}
}

// NewRecord creates a never-accessed, non-favorite record.
func NewRecord(name, url, color, group string) Record {
	return Record{
		Name:  name,
		URL:   url,
		Color: color,
		Group: group,
	}
}

// AccessedAt returns the last access time, or the zero time if never accessed.
func (r Record) AccessedAt() time.Time {
	if r.LastAccessed == nil {
		return time.Time{}
	}
	return time.UnixMilli(*r.LastAccessed)
}

// Touch records a visit at now.
func (r *Record) Touch(now time.Time) {
	ms := now.UnixMilli()
	r.LastAccessed = &ms
	r.AccessCount++
}

// Clone returns a copy of records that shares no pointers with the input.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		if r.LastAccessed != nil {
			ms := *r.LastAccessed
			r.LastAccessed = &ms
		}
		out[i] = r
	}
	return out
}
