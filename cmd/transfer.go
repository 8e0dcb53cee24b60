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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/output"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export environments and groups",
	Long: `Writes every environment and group to a file. The JSON format is the
one "envswitch import" reads; the other formats are for reading or for
importing into a browser.

Without -o the file is named servicenow-environments-YYYY-MM-DD with the
format's extension. Use -o - to write to stdout.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")

	if format == "" && outPath != "" && outPath != "-" {
		if out, ok := adapter.OutputFor(filepath.Ext(outPath)); ok {
			format = out.Name()
		}
	}
	if format == "" {
		format = "json"
	}

	return withSession("", func(s *session) error {
		file, err := exportFile(cmd.Context(), s, format)
		if err != nil {
			return err
		}

		switch {
		case toClipboard:
			if err := clipboard.WriteAll(string(file.Data)); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
			return nil
		case outPath == "-":
			_, err := os.Stdout.Write(file.Data)
			return err
		case outPath == "":
			outPath = file.Name
		}

		if err := os.WriteFile(outPath, file.Data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", outPath)
		return nil
	})
}

// exportFile renders the stored data. JSON goes through the controller so
// the file matches what import expects.
func exportFile(ctx context.Context, s *session, format string) (switcher.File, error) {
	if format == "json" {
		return s.ctl.Export(ctx)
	}

	out, ok := adapter.GetOutput(format)
	if !ok {
		return switcher.File{}, fmt.Errorf("unknown format: %s (available: %v)", format, adapter.ListOutputs())
	}
	oc := output.Config{Enabled: true, Options: map[string]interface{}{}}
	if style := cfg.GetOutputConfig(format).Style; style != "" {
		oc.Options["style"] = style
	}
	if err := out.Configure(oc); err != nil {
		return switcher.File{}, err
	}

	doc, err := s.store.Document(ctx)
	if err != nil {
		return switcher.File{}, err
	}
	if len(doc.Environments) == 0 {
		return switcher.File{}, environment.ErrNothingToExport
	}

	opts := output.DefaultRenderOptions()
	opts.IncludeMetadata = cfg.Export.IncludeMetadata
	data, err := out.Render(doc, opts)
	if err != nil {
		return switcher.File{}, fmt.Errorf("rendering %s: %w", format, err)
	}

	name := strings.TrimSuffix(s.ctl.ExportName(), ".json")
	if exts := out.Extensions(); len(exts) > 0 {
		name += exts[0]
	}
	return switcher.File{Name: name, Data: data}, nil
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import environments from an export file",
	Long: `Reads a file written by "envswitch export" (or the browser extension).

Modes:
  merge      append the environments and add missing groups
  overwrite  replace all environments and groups
  ask        ask which of the two to do (default)

The file is validated before anything is stored; one invalid entry
rejects the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := switcher.ParseImportMode(modeFlag)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		return withSession("", func(s *session) error {
			n, err := s.ctl.Import(cmd.Context(), data, mode)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d environments\n", n)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (- for stdout)")
	exportCmd.Flags().StringP("format", "f", "", "output format (default: from the file extension, else json)")
	exportCmd.Flags().Bool("clipboard", false, "copy to the clipboard instead of writing a file")

	importCmd.Flags().StringP("mode", "m", string(switcher.ModeAsk), "merge, overwrite or ask")

	rootCmd.AddCommand(exportCmd, importCmd)
}
