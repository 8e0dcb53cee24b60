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

package switcher

import (
	"context"
	"fmt"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// ImportMode selects how imported data combines with the stored data.
type ImportMode string

const (
	// ModeMerge appends records and unions group names.
	ModeMerge ImportMode = "merge"

	// ModeOverwrite replaces both collections.
	ModeOverwrite ImportMode = "overwrite"

	// ModeAsk lets the user choose; confirming merges.
	ModeAsk ImportMode = "ask"
)

// ParseImportMode validates a mode name.
func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(s); m {
	case ModeMerge, ModeOverwrite, ModeAsk:
		return m, nil
	}
	return "", fmt.Errorf("import mode %q: %w", s, ErrInvalidSetting)
}

// ExportName returns the download file name for the export date.
func (c *Controller) ExportName() string {
	return fmt.Sprintf("servicenow-environments-%s.json", c.now().UTC().Format("2006-01-02"))
}

// Export serializes the stored environments and groups.
func (c *Controller) Export(ctx context.Context) (File, error) {
	doc, err := c.store.Document(ctx)
	if err != nil {
		return File{}, err
	}
	if len(doc.Environments) == 0 {
		return File{}, environment.ErrNothingToExport
	}

	data, err := doc.Marshal()
	if err != nil {
		return File{}, fmt.Errorf("encoding export: %w", err)
	}
	return File{Name: c.ExportName(), Data: data}, nil
}

// Import parses data and stores it according to mode. It returns the
// number of imported records. On any parse or validation failure the
// store is left untouched.
func (c *Controller) Import(ctx context.Context, data []byte, mode ImportMode) (int, error) {
	incoming, err := environment.ParseDocument(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	if mode == ModeAsk {
		merge, err := c.prompt.Confirm(ctx, fmt.Sprintf(
			"Found %d environments. Add them to the existing list? (no replaces the existing list)",
			len(incoming.Environments)))
		if err != nil {
			return 0, err
		}
		mode = ModeOverwrite
		if merge {
			mode = ModeMerge
		}
	}

	doc := incoming
	switch mode {
	case ModeMerge:
		existing, err := c.store.Document(ctx)
		if err != nil {
			return 0, err
		}
		doc = environment.Merge(existing, incoming)
	case ModeOverwrite:
	default:
		return 0, fmt.Errorf("import mode %q: %w", mode, ErrInvalidSetting)
	}

	if err := c.store.SetDocument(ctx, doc); err != nil {
		return 0, err
	}
	logging.Info(subsystem, "imported %d environments (%s)", len(incoming.Environments), mode)
	c.Broadcast(ctx)
	return len(incoming.Environments), nil
}

// SetTheme stores the theme setting.
func (c *Controller) SetTheme(ctx context.Context, theme environment.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("theme %q: %w", theme, ErrInvalidSetting)
	}
	if err := c.store.SetTheme(ctx, theme); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}

// SetPreservePath stores the path preservation setting.
func (c *Controller) SetPreservePath(ctx context.Context, enabled bool) error {
	if err := c.store.SetPreservePath(ctx, enabled); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}

// SetPrefixEnabled stores the title prefix setting.
func (c *Controller) SetPrefixEnabled(ctx context.Context, enabled bool) error {
	if err := c.store.SetPrefixEnabled(ctx, enabled); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}
