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

	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/internal/picker"
	"github.com/cloudygreybeard/envswitch/pkg/indicator"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose an environment interactively",
	Long: `Shows the grouped environment list. Move with j/k or the arrow keys,
press enter to switch and f to toggle a favorite. 1-9 open the
environment at that position as is, without recording a visit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("url")
		return withSession(current, func(s *session) error {
			settings, err := s.store.Settings(cmd.Context())
			if err != nil {
				return err
			}
			target, err := picker.Run(cmd.Context(), s.ctl, indicator.New(s.store, s.browser, s.browser), current, settings.Theme)
			if err != nil {
				return err
			}
			if target != "" {
				fmt.Println(target)
			}
			return nil
		})
	},
}

func init() {
	pickCmd.Flags().String("url", "", "URL of the page you are on")
	rootCmd.AddCommand(pickCmd)
}
