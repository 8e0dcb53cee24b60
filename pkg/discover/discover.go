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

// Package discover finds environment candidates in existing browser
// bookmarks.
package discover

import (
	"context"
	"fmt"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
	"github.com/cloudygreybeard/envswitch/pkg/config"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/input"
)

const subsystem = "discover"

// FileInput is the adapter that reads exported bookmark files.
const FileInput = "file"

// Preference is the order browsers are read in. The first bookmark for a
// host wins, so it also decides which title names a candidate.
var Preference = []string{"chrome", "firefox", "edge", "safari", "chromium", "brave"}

// Options selects what to read.
type Options struct {
	// Browsers names the sources to read. Empty reads every enabled and
	// available browser.
	Browsers []string

	// Profile restricts the read to one profile.
	Profile string

	// File is an exported OPML or HTML bookmark file to read as well.
	File string
}

// Collection is the combined output of several sources.
type Collection struct {
	Bookmarks []bookmark.Bookmark
	Sources   []bookmark.SourceInfo
}

// Collect reads bookmarks. Sources named explicitly must succeed; the
// rest are skipped with a debug log when they fail.
func Collect(ctx context.Context, cfg *config.Config, opts Options) (Collection, error) {
	var out Collection

	explicit := len(opts.Browsers) > 0
	names := opts.Browsers
	if !explicit && opts.File == "" {
		names = Preference
	}

	for _, name := range names {
		inp, ok := adapter.GetInput(name)
		if !ok {
			if !explicit {
				continue
			}
			return out, fmt.Errorf("unknown browser: %s (available: %v)", name, adapter.ListInputs())
		}
		ic := cfg.GetInputConfig(name)
		if !explicit && !ic.Enabled {
			continue
		}

		profile := ic.Profile
		if opts.Profile != "" {
			profile = opts.Profile
		}
		err := read(ctx, inp, input.Config{Enabled: true, Profile: profile, CustomPath: ic.CustomPath}, &out)
		if err != nil {
			if explicit {
				return out, err
			}
			logging.Debug(subsystem, "skipping %s: %v", name, err)
		}
	}

	if opts.File != "" {
		inp, ok := adapter.GetInput(FileInput)
		if !ok {
			return out, fmt.Errorf("no reader for bookmark files")
		}
		if err := read(ctx, inp, input.Config{Enabled: true, CustomPath: opts.File}, &out); err != nil {
			return out, err
		}
	}
	return out, nil
}

func read(ctx context.Context, inp input.Adapter, ic input.Config, out *Collection) error {
	if err := inp.Configure(ic); err != nil {
		return fmt.Errorf("configuring %s: %w", inp.Name(), err)
	}
	if !inp.Available() {
		return fmt.Errorf("%s: not available", inp.Name())
	}

	logging.Debug(subsystem, "reading %s from %s", inp.Name(), inp.Path())
	found, err := inp.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inp.Name(), err)
	}

	out.Bookmarks = append(out.Bookmarks, found...)
	out.Sources = append(out.Sources, bookmark.SourceInfo{
		Name:    inp.Name(),
		Profile: ic.Profile,
		Path:    inp.Path(),
		Count:   len(found),
	})
	return nil
}

// Find collects bookmarks and turns them into candidates that are not yet
// registered.
func Find(ctx context.Context, cfg *config.Config, registered []environment.Record, opts Options) (bookmark.Result, Collection, error) {
	coll, err := Collect(ctx, cfg, opts)
	if err != nil {
		return bookmark.Result{}, coll, err
	}
	res, err := bookmark.Candidates(coll.Bookmarks, registered, bookmark.CandidateOptions{
		AllowList:     cfg.AllowDomains,
		Exclude:       cfg.Discovery.Exclude,
		Color:         cfg.Color,
		GroupByFolder: cfg.Discovery.GroupByFolder,
	})
	return res, coll, err
}

// Document returns the candidates as an importable document. Groups the
// candidates need are listed so a merge creates them.
func Document(res bookmark.Result) environment.Document {
	doc := environment.Document{
		Environments: make([]environment.Record, 0, len(res.Candidates)),
		Groups:       res.Groups(),
	}
	for _, c := range res.Candidates {
		doc.Environments = append(doc.Environments, c.Record)
	}
	return doc
}
