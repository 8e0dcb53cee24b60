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

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/bookmark"
	"github.com/cloudygreybeard/envswitch/pkg/discover"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find ServiceNow instances in browser bookmarks",
	Long: `Reads browser bookmarks and registers every ServiceNow instance that is
not registered yet, one environment per host.

By default all enabled browsers are read, in the order chrome, firefox,
edge, safari, chromium, brave. The first bookmark found for a host names
the new environment.

Examples:
  envswitch discover --dry-run
  envswitch discover --browser firefox --profile work
  envswitch discover --file bookmarks.html
  envswitch discover --list-profiles`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-profiles"); list {
		return runListProfiles()
	}

	browsers, _ := cmd.Flags().GetStringSlice("browser")
	profile, _ := cmd.Flags().GetString("profile")
	file, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if group, _ := cmd.Flags().GetBool("group-by-folder"); cmd.Flags().Changed("group-by-folder") {
		cfg.Discovery.GroupByFolder = group
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, exclude...)
	}

	ctx := cmd.Context()
	return withSession("", func(s *session) error {
		registered, err := s.store.Environments(ctx)
		if err != nil {
			return err
		}

		res, coll, err := discover.Find(ctx, &cfg, registered, discover.Options{
			Browsers: browsers,
			Profile:  profile,
			File:     file,
		})
		if err != nil {
			return err
		}

		for _, src := range coll.Sources {
			fmt.Fprintf(os.Stderr, "Read %d bookmarks from %s\n", src.Count, sourceLabel(src))
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if len(coll.Sources) == 0 {
			return fmt.Errorf("no bookmark sources available; try --list-profiles")
		}
		if len(res.Candidates) == 0 {
			fmt.Println("No new environments found")
			return nil
		}

		for i, c := range res.Candidates {
			group := ""
			if c.Record.Group != "" {
				group = " [" + c.Record.Group + "]"
			}
			fmt.Printf("%3d %-24s %s%s\n", len(registered)+i+1, c.Record.Name, c.Record.URL, group)
		}
		if dryRun {
			fmt.Printf("\n%d environments found (dry run, nothing stored)\n", len(res.Candidates))
			return nil
		}

		data, err := discover.Document(res).Marshal()
		if err != nil {
			return err
		}
		n, err := s.ctl.Import(ctx, data, switcher.ModeMerge)
		if err != nil {
			return err
		}
		fmt.Printf("\nAdded %d environments\n", n)
		return nil
	})
}

func sourceLabel(src bookmark.SourceInfo) string {
	if src.Profile == "" {
		return src.Name
	}
	return fmt.Sprintf("%s (%s)", src.Name, src.Profile)
}

func runListProfiles() error {
	fmt.Println("Available browser profiles:")
	fmt.Println()

	for _, name := range discover.Preference {
		inp, ok := adapter.GetInput(name)
		if !ok {
			continue
		}

		status := "not available"
		if inp.Available() {
			status = "available"
		}
		fmt.Printf("  %s (%s)\n", inp.DisplayName(), status)
		fmt.Printf("    Path: %s\n", inp.Path())

		profiles, err := inp.ListProfiles()
		if err != nil {
			fmt.Printf("    Error: %v\n", err)
			continue
		}
		for _, p := range profiles {
			marker := ""
			if p.IsDefault {
				marker = " (default)"
			}
			fmt.Printf("    - %s%s\n", p.Name, marker)
		}
		fmt.Println()
	}

	fmt.Printf("Use --browser NAME --profile NAME to read one profile (%s).\n", strings.Join(discover.Preference, ", "))
	return nil
}

func init() {
	discoverCmd.Flags().StringSliceP("browser", "b", nil, "browsers to read (default: all enabled)")
	discoverCmd.Flags().StringP("profile", "p", "", "browser profile to read")
	discoverCmd.Flags().String("file", "", "also read an exported bookmark file (HTML or OPML)")
	discoverCmd.Flags().StringSlice("exclude", nil, "glob patterns for URLs or folder paths to skip")
	discoverCmd.Flags().Bool("group-by-folder", false, "put environments in groups named after their bookmark folder")
	discoverCmd.Flags().Bool("dry-run", false, "list what would be added without storing it")
	discoverCmd.Flags().Bool("list-profiles", false, "list browser profiles and exit")

	rootCmd.AddCommand(discoverCmd)
}
