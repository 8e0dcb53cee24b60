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
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage environment groups",
}

var groupAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession("", func(s *session) error {
			return s.ctl.AddGroup(cmd.Context(), args[0])
		})
	},
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename OLD [NEW]",
	Short: "Rename a group and retag its environments",
	Long:  "Rename a group and retag its environments. Without NEW the new name is asked for.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession("", func(s *session) error {
			if len(args) == 2 {
				return s.ctl.RenameGroup(cmd.Context(), args[0], args[1])
			}
			name, err := s.ctl.PromptRenameGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Group %s is now %s\n", args[0], name)
			return nil
		})
	},
}

var groupRmCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"delete"},
	Short:   "Delete a group; its environments become ungrouped",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession("", func(s *session) error {
			deleted, err := s.ctl.DeleteGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if deleted {
				fmt.Printf("Deleted group %s\n", args[0])
			}
			return nil
		})
	},
}

var groupMoveCmd = &cobra.Command{
	Use:   "move NAME BEFORE",
	Short: "Move a group to the position of another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession("", func(s *session) error {
			return s.ctl.MoveGroup(cmd.Context(), args[0], args[1])
		})
	},
}

var groupLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List groups in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession("", func(s *session) error {
			groups, err := s.store.Groups(cmd.Context())
			if err != nil {
				return err
			}
			records, err := s.store.Environments(cmd.Context())
			if err != nil {
				return err
			}
			counts := make(map[string]int)
			for _, r := range records {
				counts[r.Group]++
			}
			if len(groups) == 0 {
				fmt.Println("No groups")
				return nil
			}
			for _, g := range groups {
				fmt.Printf("%-24s %d\n", g, counts[g])
			}
			return nil
		})
	},
}

func init() {
	groupCmd.AddCommand(groupAddCmd, groupRenameCmd, groupRmCmd, groupMoveCmd, groupLsCmd)
	rootCmd.AddCommand(groupCmd)
}
