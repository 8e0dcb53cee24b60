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

package environment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal renders a document as two-space indented JSON.
func (d Document) Marshal() ([]byte, error) {
	if d.Environments == nil {
		d.Environments = []Record{}
	}
	if d.Groups == nil {
		d.Groups = []string{}
	}
	return json.MarshalIndent(d, "", "  ")
}

// ParseDocument decodes import data.
//
// Two shapes are accepted: the current {environments, groups} object and the
// legacy bare array of records (groups then empty). Every record must carry
// a name, url and color; absent optional fields take their zero values.
func ParseDocument(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, ErrInvalidFormat
	}

	var doc Document
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &doc.Environments); err != nil {
			return Document{}, fmt.Errorf("parsing environments: %w", err)
		}
	case '{':
		var raw struct {
			Environments json.RawMessage `json:"environments"`
			Groups       []string        `json:"groups"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Document{}, fmt.Errorf("parsing document: %w", err)
		}
		envs := bytes.TrimSpace(raw.Environments)
		if len(envs) == 0 || envs[0] != '[' {
			return Document{}, ErrInvalidFormat
		}
		if err := json.Unmarshal(envs, &doc.Environments); err != nil {
			return Document{}, fmt.Errorf("parsing environments: %w", err)
		}
		doc.Groups = raw.Groups
	default:
		// Still run the decoder so malformed input reports the parser's message.
		var v interface{}
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return Document{}, fmt.Errorf("parsing document: %w", err)
		}
		return Document{}, ErrInvalidFormat
	}

	for i, r := range doc.Environments {
		if err := ValidateImported(r); err != nil {
			return Document{}, fmt.Errorf("environment %d: %w", i+1, err)
		}
	}
	if doc.Environments == nil {
		doc.Environments = []Record{}
	}
	if doc.Groups == nil {
		doc.Groups = []string{}
	}
	return doc, nil
}

// Merge appends incoming records after existing ones and unions the group
// names, keeping existing order and dropping duplicates.
func Merge(existing, incoming Document) Document {
	out := Document{
		Environments: append(Clone(existing.Environments), Clone(incoming.Environments)...),
		Groups:       make([]string, 0, len(existing.Groups)+len(incoming.Groups)),
	}
	seen := make(map[string]bool)
	for _, g := range append(append([]string{}, existing.Groups...), incoming.Groups...) {
		if seen[g] {
			continue
		}
		seen[g] = true
		out.Groups = append(out.Groups, g)
	}
	return out
}
