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
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List bookmark sources and export formats",
	Long: `Lists the bookmark sources read by "envswitch discover" and the formats
written by "envswitch export".`,
	RunE: runAdapters,
}

func init() {
	rootCmd.AddCommand(adaptersCmd)
}

func runAdapters(cmd *cobra.Command, args []string) error {
	fmt.Println("Bookmark sources:")
	fmt.Println()

	for _, inp := range adapter.AllInputs() {
		status := "not available"
		if inp.Available() {
			status = "available"
		}
		fmt.Printf("  %-12s %-20s [%s]\n", inp.Name(), inp.DisplayName(), status)
	}

	fmt.Println()
	fmt.Println("Export formats:")
	fmt.Println()

	for _, out := range adapter.AllOutputs() {
		fmt.Printf("  %-12s %-20s %s\n", out.Name(), out.DisplayName(), strings.Join(out.Extensions(), " "))
	}

	return nil
}
