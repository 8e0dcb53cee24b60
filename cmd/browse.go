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
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/browser"
	"github.com/cloudygreybeard/envswitch/pkg/browser/playwright"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/indicator"
	"github.com/cloudygreybeard/envswitch/pkg/store"
	"github.com/cloudygreybeard/envswitch/pkg/store/sqlite"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
	"github.com/cloudygreybeard/envswitch/pkg/titleprefix"
)

var browseCmd = &cobra.Command{
	Use:   "browse [NUMBER]",
	Short: "Open a managed browser with environment badges and title prefixes",
	Long: `Starts a Chromium window driven by envswitch. Pages of a registered
environment get a colored badge, a generated icon and a [NAME] title
prefix.

Commands read from stdin while the browser runs:
  1-9     open environment N in the active tab (keeps nothing, records nothing)
  s N     switch the active tab to environment N, keeping the page path
  t       list open tabs
  t N     bring tab N to the front
  ls      list environments
  q       quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("url", "", "start page")
	browseCmd.Flags().Bool("headless", false, "run without a window")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	kv, err := sqlite.Open(cfg.StorePath())
	if err != nil {
		return err
	}
	defer kv.Close()
	st := store.New(kv)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start, _ := cmd.Flags().GetString("url")
	if len(args) == 1 {
		i, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		records, err := st.Environments(ctx)
		if err != nil {
			return err
		}
		if i >= len(records) {
			return fmt.Errorf("environment %d: %w", i+1, environment.ErrIndexOutOfRange)
		}
		start = records[i].URL
	}

	headless := cfg.Browser.Headless
	if cmd.Flags().Changed("headless") {
		headless, _ = cmd.Flags().GetBool("headless")
	}
	pw, err := playwright.Launch(playwright.Options{Headless: headless, Install: cfg.Browser.Install})
	if err != nil {
		return err
	}
	defer pw.Close()

	b := &browseSession{
		store:    st,
		session:  pw,
		tabs:     indicator.New(st, pw, pw),
		ctl:      switcher.New(st, pw, newPrompter(os.Stdin, os.Stderr, assumeYes), switcher.WithAllowList(cfg.AllowDomains)),
		prefixes: make(map[browser.TabID]*titleprefix.Controller),
	}
	defer b.close()

	go b.run(ctx)
	if _, err := pw.Open(ctx, start); err != nil {
		logging.Warn("browse", "opening %s: %v", start, err)
	}

	if v, err := b.ctl.View(ctx, start); err == nil {
		printView(os.Stdout, v)
	}
	return b.readCommands(ctx, cancel)
}

// browseSession ties the tab indicator and the per-tab title prefix
// controllers to a Playwright session.
type browseSession struct {
	store   *store.Store
	session *playwright.Session
	tabs    *indicator.Controller
	ctl     *switcher.Controller

	mu       sync.Mutex
	prefixes map[browser.TabID]*titleprefix.Controller
}

func (b *browseSession) run(ctx context.Context) {
	for ev := range b.session.Events() {
		if err := b.tabs.Handle(ctx, ev); err != nil {
			logging.Debug("browse", "tab %d: %v", ev.Tab(), err)
		}
		if nav, ok := ev.(browser.Navigated); ok {
			b.applyPrefix(ctx, nav.TabID)
		}
	}
}

func (b *browseSession) applyPrefix(ctx context.Context, id browser.TabID) {
	b.mu.Lock()
	tp, ok := b.prefixes[id]
	if !ok {
		doc, err := b.session.Document(id)
		if err != nil {
			b.mu.Unlock()
			logging.Debug("browse", "tab %d: %v", id, err)
			return
		}
		tp = titleprefix.New(b.store, doc)
		b.prefixes[id] = tp
		b.session.Listen(id, tp.Handle)
	}
	b.mu.Unlock()

	if err := tp.Apply(ctx); err != nil {
		logging.Debug("browse", "title prefix for tab %d: %v", id, err)
	}
}

func (b *browseSession) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tp := range b.prefixes {
		tp.Close()
	}
}

func (b *browseSession) readCommands(ctx context.Context, cancel context.CancelFunc) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if line == "q" || line == "quit" {
				cancel()
				return nil
			}
			if err := b.ctl.Report(ctx, b.command(ctx, line)); err != nil && !switcher.Reported(err) {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		}
	}
}

func (b *browseSession) command(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch {
	case fields[0] == "ls":
		tab, _ := b.session.Active(ctx)
		v, err := b.ctl.View(ctx, tab.URL)
		if err != nil {
			return err
		}
		printView(os.Stdout, v)
		return nil
	case fields[0] == "s" && len(fields) == 2:
		i, err := parseNumber(fields[1])
		if err != nil {
			return err
		}
		target, err := b.ctl.Switch(ctx, i)
		if err != nil {
			return err
		}
		fmt.Println(target)
		return nil
	case fields[0] == "t" && len(fields) == 1:
		tabs, err := b.session.All(ctx)
		if err != nil {
			return err
		}
		for _, tab := range tabs {
			marker := " "
			if tab.Active {
				marker = "*"
			}
			fmt.Printf("%s %d %s %s\n", marker, tab.ID, tab.Title, tab.URL)
		}
		return nil
	case fields[0] == "t" && len(fields) == 2:
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid tab %q", fields[1])
		}
		return b.session.Activate(ctx, browser.TabID(id))
	case len(fields) == 1 && len(fields[0]) == 1 && fields[0] >= "1" && fields[0] <= "9":
		return b.tabs.Jump(ctx, int(fields[0][0]-'0'))
	}
	return fmt.Errorf("unknown command %q (1-9, s N, t [N], ls, q)", line)
}
