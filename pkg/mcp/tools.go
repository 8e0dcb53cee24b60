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

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/discover"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("match_url",
		mcp.WithDescription("Find the registered environment for a URL, with its badge text and title prefix"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Page URL"),
		),
	), s.HandleMatchURL)

	s.mcp.AddTool(mcp.NewTool("search_environments",
		mcp.WithDescription("Search environments by name, URL, group or memo"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text"),
		),
	), s.HandleSearch)

	s.mcp.AddTool(mcp.NewTool("resolve_switch",
		mcp.WithDescription("Compute where switching to an environment would navigate, without recording a visit"),
		mcp.WithNumber("number",
			mcp.Required(),
			mcp.Description("Environment number as listed by envswitch ls, starting at 1"),
		),
		mcp.WithString("current_url",
			mcp.Description("URL of the page being switched from"),
		),
	), s.HandleResolveSwitch)

	s.mcp.AddTool(mcp.NewTool("discover_environments",
		mcp.WithDescription("List unregistered ServiceNow instances found in browser bookmarks"),
		mcp.WithString("browser",
			mcp.Description("Read only this browser"),
		),
		mcp.WithString("profile",
			mcp.Description("Read only this browser profile"),
		),
	), s.HandleDiscover)
}

// environmentInfo is the tool view of a record.
type environmentInfo struct {
	Number      int    `json:"number,omitempty"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Color       string `json:"color"`
	Group       string `json:"group,omitempty"`
	Favorite    bool   `json:"favorite,omitempty"`
	Memo        string `json:"memo,omitempty"`
	Badge       string `json:"badge,omitempty"`
	TitlePrefix string `json:"title_prefix,omitempty"`
}

func info(r environment.Record, i int) environmentInfo {
	return environmentInfo{
		Number:   i + 1,
		Name:     r.Name,
		URL:      r.URL,
		Color:    r.Color,
		Group:    r.Group,
		Favorite: r.IsFavorite,
		Memo:     r.Memo,
	}
}

// HandleMatchURL finds the environment a URL belongs to.
func (s *Server) HandleMatchURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required"), nil
	}
	records, err := s.store.Environments(ctx)
	if err != nil {
		return toolError("match_url", err), nil
	}

	r, i, ok := environment.Match(url, records)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No environment matches %s", url)), nil
	}
	out := info(r, i)
	out.Badge = environment.BadgeText(r.Name)
	out.TitlePrefix = environment.TitlePrefix(r.Name)
	return jsonResult("match_url", "", out), nil
}

// HandleSearch lists environments whose name, URL, group or memo contain
// the query.
func (s *Server) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	records, err := s.store.Environments(ctx)
	if err != nil {
		return toolError("search_environments", err), nil
	}

	query = strings.ToLower(strings.TrimSpace(query))
	matches := []environmentInfo{}
	for i, r := range records {
		haystack := strings.ToLower(strings.Join([]string{r.Name, r.URL, r.Group, r.Memo}, "\n"))
		if strings.Contains(haystack, query) {
			matches = append(matches, info(r, i))
		}
	}
	return jsonResult("search_environments", fmt.Sprintf("Found %d matches:\n", len(matches)), matches), nil
}

// HandleResolveSwitch returns the URL a switch to environment number would
// navigate to from current_url. Nothing is recorded.
func (s *Server) HandleResolveSwitch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := req.RequireInt("number")
	if err != nil {
		return mcp.NewToolResultError("number parameter is required"), nil
	}
	current := req.GetString("current_url", "")

	records, err := s.store.Environments(ctx)
	if err != nil {
		return toolError("resolve_switch", err), nil
	}
	if n < 1 || n > len(records) {
		return toolError("resolve_switch", fmt.Errorf("%d: %w", n, environment.ErrIndexOutOfRange)), nil
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return toolError("resolve_switch", err), nil
	}

	r := records[n-1]
	return mcp.NewToolResultText(switcher.Target(r.URL, current, settings.PreservePath, s.config.AllowDomains)), nil
}

// HandleDiscover lists ServiceNow instances in browser bookmarks that are
// not registered yet.
func (s *Server) HandleDiscover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.store.Environments(ctx)
	if err != nil {
		return toolError("discover_environments", err), nil
	}

	opts := discover.Options{Profile: req.GetString("profile", "")}
	if b := req.GetString("browser", ""); b != "" {
		opts.Browsers = []string{b}
	}
	res, _, err := discover.Find(ctx, s.config, records, opts)
	if err != nil {
		return toolError("discover_environments", err), nil
	}

	found := make([]environmentInfo, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		found = append(found, info(c.Record, -1))
	}
	return jsonResult("discover_environments", fmt.Sprintf("Found %d new environments:\n", len(found)), found), nil
}

func toolError(tool string, err error) *mcp.CallToolResult {
	logging.Debug(subsystem, "%s: %v", tool, err)
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(tool, header string, v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(tool, fmt.Errorf("failed to format result: %w", err))
	}
	return mcp.NewToolResultText(header + string(data))
}
