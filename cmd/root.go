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

// Package cmd implements the envswitch CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/browser/system"
	"github.com/cloudygreybeard/envswitch/pkg/config"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/store"
	"github.com/cloudygreybeard/envswitch/pkg/store/sqlite"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"

	// Import adapters to trigger init() registration
	_ "github.com/cloudygreybeard/envswitch/pkg/input/chromium"
	_ "github.com/cloudygreybeard/envswitch/pkg/input/firefox"
	_ "github.com/cloudygreybeard/envswitch/pkg/input/opml"
	_ "github.com/cloudygreybeard/envswitch/pkg/input/safari"
	_ "github.com/cloudygreybeard/envswitch/pkg/output/json"
	_ "github.com/cloudygreybeard/envswitch/pkg/output/markdown"
	_ "github.com/cloudygreybeard/envswitch/pkg/output/opml"
	_ "github.com/cloudygreybeard/envswitch/pkg/output/yaml"
)

var (
	cfgFile   string
	verbose   bool
	assumeYes bool

	cfg config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "envswitch",
	Short: "Switch between ServiceNow environments",
	Long: `envswitch keeps a list of ServiceNow instances and moves you between
them, keeping the page you are on.

Environments are stored in ~/.envswitch/store.db. Each one has a name, a
base URL, a color and an optional group and memo. Environment numbers are
the positions shown by "envswitch ls", starting at 1.

Examples:
  envswitch add Dev https://dev12345.service-now.com/ --color "#4caf50"
  envswitch ls
  envswitch switch 2 --url https://dev12345.service-now.com/incident.do
  envswitch pick                 # interactive list
  envswitch browse               # managed browser with badges and title prefixes
  envswitch discover             # find instances in your browser bookmarks
  envswitch export -o envs.json
  envswitch import envs.json --mode merge
  envswitch serve                # run as an MCP server`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		level := logging.ParseLevel(cfg.Log.Level)
		if verbose {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !switcher.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./envswitch.yaml or ~/.envswitch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmations")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("envswitch %s (commit: %s, built: %s)\n", Version, Commit, Date))
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.LocalPath()
	}
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// session is an open store with a controller over the system browser.
type session struct {
	kv      *sqlite.KV
	store   *store.Store
	browser *system.Browser
	ctl     *switcher.Controller
}

// openSession opens the store. currentURL is the page the user is on, used
// for path preservation and the current marker.
func openSession(currentURL string) (*session, error) {
	kv, err := sqlite.Open(cfg.StorePath())
	if err != nil {
		return nil, err
	}
	s := store.New(kv)
	b := system.New(currentURL)
	return &session{
		kv:      kv,
		store:   s,
		browser: b,
		ctl:     switcher.New(s, b, newPrompter(os.Stdin, os.Stderr, assumeYes), switcher.WithAllowList(cfg.AllowDomains)),
	}, nil
}

func (s *session) Close() error {
	return s.kv.Close()
}

// withSession runs fn with an open session and closes it afterwards.
// Input and import errors from fn are shown through the prompter.
func withSession(currentURL string, fn func(*session) error) error {
	s, err := openSession(currentURL)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.ctl.Report(context.Background(), fn(s))
}

// parseNumber converts a 1-based environment number to a list index.
func parseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid environment number %q: %w", arg, environment.ErrIndexOutOfRange)
	}
	return n - 1, nil
}
