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
	"errors"
	"fmt"
	"strings"
)

// Validation and parse errors. Callers wrap these with context; test with
// errors.Is.
var (
	ErrEmptyField      = errors.New("required field is empty")
	ErrURLNotAllowed   = errors.New("URL is not an accepted environment URL")
	ErrDuplicateGroup  = errors.New("group already exists")
	ErrGroupNotFound   = errors.New("group not found")
	ErrIndexOutOfRange = errors.New("environment index out of range")
	ErrNothingToExport = errors.New("no environments to export")
	ErrInvalidFormat   = errors.New("invalid file format")
	ErrMissingField    = errors.New("environment data is missing required fields")
)

// DefaultAllowList is the set of domain substrings accepted for environment
// URLs when no configuration overrides it.
var DefaultAllowList = []string{"service-now.com", "servicenow.com"}

// Allowed reports whether rawURL contains any of the allow-list substrings.
//
// This is a plain substring check. It accepts hosts such as
// "evil-service-now.com.attacker.net" and that is the established contract.
func Allowed(rawURL string, allowList []string) bool {
	for _, d := range allowList {
		if d != "" && strings.Contains(rawURL, d) {
			return true
		}
	}
	return false
}

// ValidateInput checks the fields a user supplies when adding or editing.
func ValidateInput(name, rawURL string, allowList []string) error {
	if name == "" {
		return fmt.Errorf("name: %w", ErrEmptyField)
	}
	if rawURL == "" {
		return fmt.Errorf("url: %w", ErrEmptyField)
	}
	if !Allowed(rawURL, allowList) {
		return fmt.Errorf("%s: %w", rawURL, ErrURLNotAllowed)
	}
	return nil
}

// ValidateImported checks a record read from an import file.
func ValidateImported(r Record) error {
	if r.Name == "" || r.URL == "" || r.Color == "" {
		return ErrMissingField
	}
	return nil
}
