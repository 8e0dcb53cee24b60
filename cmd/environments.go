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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/pkg/browser/system"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/indicator"
	"github.com/cloudygreybeard/envswitch/pkg/listview"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
)

var addCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Register an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession("", func(s *session) error {
			form := formFromFlags(cmd, switcher.Form{Name: args[0], URL: args[1]})
			if !cmd.Flags().Changed("color") {
				records, err := s.store.Environments(ctx)
				if err != nil {
					return err
				}
				form.Color = cfg.Color(len(records))
			}
			i, err := s.ctl.Add(ctx, form)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s as environment %d\n", strings.TrimSpace(form.Name), i+1)
			return nil
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit NUMBER",
	Short: "Change an environment's fields",
	Long: `Changes the given fields of an environment. Fields without a flag keep
their value. Favorite status and usage statistics are not affected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withSession("", func(s *session) error {
			edit, err := s.ctl.BeginEdit(ctx, i)
			if err != nil {
				return err
			}
			r := edit.Record
			form := formFromFlags(cmd, switcher.Form{Name: r.Name, URL: r.URL, Color: r.Color, Group: r.Group, Memo: r.Memo})
			if name, _ := cmd.Flags().GetString("name"); cmd.Flags().Changed("name") {
				form.Name = name
			}
			if url, _ := cmd.Flags().GetString("url"); cmd.Flags().Changed("url") {
				form.URL = url
			}
			if err := s.ctl.SaveEdit(ctx, form); err != nil {
				s.ctl.CancelEdit()
				return err
			}
			fmt.Printf("Updated environment %d\n", i+1)
			return nil
		})
	},
}

// formFromFlags overlays the color, group and memo flags that were set.
func formFromFlags(cmd *cobra.Command, form switcher.Form) switcher.Form {
	if v, _ := cmd.Flags().GetString("color"); cmd.Flags().Changed("color") {
		form.Color = v
	}
	if v, _ := cmd.Flags().GetString("group"); cmd.Flags().Changed("group") {
		form.Group = v
	}
	if v, _ := cmd.Flags().GetString("memo"); cmd.Flags().Changed("memo") {
		form.Memo = v
	}
	return form
}

var rmCmd = &cobra.Command{
	Use:     "rm NUMBER",
	Aliases: []string{"delete"},
	Short:   "Delete an environment",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		return withSession("", func(s *session) error {
			deleted, err := s.ctl.Delete(cmd.Context(), i)
			if err != nil {
				return err
			}
			if deleted {
				fmt.Printf("Deleted environment %d\n", i+1)
			}
			return nil
		})
	},
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List environments by group",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("url")
		return withSession(current, func(s *session) error {
			v, err := s.ctl.View(cmd.Context(), current)
			if err != nil {
				return err
			}
			printView(os.Stdout, v)
			return nil
		})
	},
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	currentStyle = lipgloss.NewStyle().Bold(true)
)

func printView(w io.Writer, v listview.View) {
	if v.Len() == 0 {
		fmt.Fprintln(w, "No environments registered. Add one with: envswitch add NAME URL")
		return
	}
	for i, section := range v.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name := section.Name
		if name == "" {
			name = "Ungrouped"
		}
		fmt.Fprintln(w, headingStyle.Render(name))
		for _, it := range section.Items {
			r := it.Record
			star := " "
			if r.IsFavorite {
				star = "★"
			}
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("■")
			label := r.Name
			when := mutedStyle.Render(it.Relative)
			if it.IsCurrent {
				label = currentStyle.Render(label)
				when = currentStyle.Render("current")
			}
			fmt.Fprintf(w, "%3d %s %s %-20s %s  %s\n", it.Index+1, swatch, star, label, r.URL, when)
			if r.Memo != "" {
				fmt.Fprintf(w, "        %s\n", mutedStyle.Render(r.Memo))
			}
		}
	}
}

var switchCmd = &cobra.Command{
	Use:   "switch NUMBER",
	Short: "Open an environment, keeping the current page",
	Long: `Opens an environment in the default browser and records the visit.

With --url set to the page you are on and path preservation enabled, the
path, query and fragment of that page are kept on the new instance.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		current, _ := cmd.Flags().GetString("url")
		return withSession(current, func(s *session) error {
			target, err := s.ctl.Switch(cmd.Context(), i)
			if err != nil {
				return err
			}
			fmt.Println(target)
			return nil
		})
	},
}

var favCmd = &cobra.Command{
	Use:   "fav NUMBER",
	Short: "Toggle an environment's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		return withSession("", func(s *session) error {
			fav, err := s.ctl.ToggleFavorite(cmd.Context(), i)
			if err != nil {
				return err
			}
			if fav {
				fmt.Printf("Environment %d is now a favorite\n", i+1)
			} else {
				fmt.Printf("Environment %d is no longer a favorite\n", i+1)
			}
			return nil
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move FROM TO",
	Short: "Move an environment to another position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		to, err := parseNumber(args[1])
		if err != nil {
			return err
		}
		return withSession("", func(s *session) error {
			return s.ctl.Move(cmd.Context(), from, to)
		})
	},
}

var jumpCmd = &cobra.Command{
	Use:   "jump N",
	Short: "Open environment N (1-9) without recording a visit",
	Long: `Opens the environment at position N in the default browser. This is the
keyboard shortcut action: it does not keep the current path and does not
update usage statistics. Positions without an environment are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[0])
		}
		return withSession("", func(s *session) error {
			return indicator.New(s.store, s.browser, s.browser).Jump(cmd.Context(), n)
		})
	},
}

var matchCmd = &cobra.Command{
	Use:   "match URL",
	Short: "Show the environment a URL belongs to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(args[0], func(s *session) error {
			return printMatch(cmd.Context(), s, args[0])
		})
	},
}

// printMatch runs the tab indicator against url and prints the resulting
// badge and title prefix.
func printMatch(ctx context.Context, s *session, url string) error {
	ind := indicator.New(s.store, s.browser, s.browser)
	if err := ind.Refresh(ctx, system.TabID, url); err != nil {
		return err
	}

	records, err := s.store.Environments(ctx)
	if err != nil {
		return err
	}
	r, i, ok := environment.Match(url, records)
	if !ok {
		fmt.Println("No matching environment")
		return nil
	}
	fmt.Printf("%s %d %s (%s)\n", s.browser.Badge(), i+1, r.Name, r.URL)
	fmt.Printf("Title prefix: [%s]\n", environment.TitlePrefix(r.Name))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().String("color", "", "badge color, e.g. #4caf50 (default: next palette color)")
		c.Flags().String("group", "", "group name (must exist)")
		c.Flags().String("memo", "", "free-text note")
	}
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().String("url", "", "new base URL")

	for _, c := range []*cobra.Command{lsCmd, switchCmd} {
		c.Flags().String("url", "", "URL of the page you are on")
	}

	rootCmd.AddCommand(addCmd, editCmd, rmCmd, lsCmd, switchCmd, favCmd, moveCmd, jumpCmd, matchCmd)
}
