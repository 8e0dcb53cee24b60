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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Long: `Shows the stored preferences. Use "envswitch settings set KEY VALUE" to
change one.

Keys:
  theme          light, dark or auto
  preserve-path  true to keep the current path when switching
  prefix         true to prefix page titles with the environment name`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession("", func(s *session) error {
			st, err := s.store.Settings(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("theme:         %s\n", st.Theme)
			fmt.Printf("preserve-path: %t\n", st.PreservePath)
			fmt.Printf("prefix:        %t\n", st.PrefixEnabled)
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:       "set KEY VALUE",
	Short:     "Change a preference",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"theme", "preserve-path", "prefix"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		return withSession("", func(s *session) error {
			ctx := cmd.Context()
			switch key {
			case "theme":
				return s.ctl.SetTheme(ctx, environment.Theme(value))
			case "preserve-path", "prefix":
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("%s: expected true or false, got %q", key, value)
				}
				if key == "prefix" {
					return s.ctl.SetPrefixEnabled(ctx, enabled)
				}
				return s.ctl.SetPreservePath(ctx, enabled)
			}
			return fmt.Errorf("unknown setting %q", key)
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
