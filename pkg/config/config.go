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

// Package config provides configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// Config represents the full configuration.
type Config struct {
	Store        StoreConfig     `yaml:"store"`
	AllowDomains []string        `yaml:"allow_domains"`
	Palette      []string        `yaml:"palette"`
	Discovery    DiscoveryConfig `yaml:"discovery"`
	Browser      BrowserConfig   `yaml:"browser"`
	Export       ExportConfig    `yaml:"export"`
	Log          LogConfig       `yaml:"log"`
}

// StoreConfig configures the persistent environment store.
type StoreConfig struct {
	// Path is the SQLite database file. A leading ~ expands to the home
	// directory.
	Path string `yaml:"path"`
}

// DiscoveryConfig configures the bookmark input adapters used by discover.
type DiscoveryConfig struct {
	Inputs InputsConfig `yaml:"inputs"`

	// Exclude holds glob patterns matched against bookmark URLs and
	// folder paths.
	Exclude []string `yaml:"exclude"`

	// GroupByFolder puts each candidate in a group named after its
	// bookmark folder.
	GroupByFolder bool `yaml:"group_by_folder"`
}

// InputsConfig configures input adapters.
type InputsConfig struct {
	Chrome   InputConfig `yaml:"chrome"`
	Edge     InputConfig `yaml:"edge"`
	Firefox  InputConfig `yaml:"firefox"`
	Safari   InputConfig `yaml:"safari"`
	Chromium InputConfig `yaml:"chromium"`
	Brave    InputConfig `yaml:"brave"`
}

// InputConfig configures a single input adapter.
type InputConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Profile    string `yaml:"profile"`
	CustomPath string `yaml:"custom_path"`
}

// BrowserConfig configures the Playwright session used by browse.
type BrowserConfig struct {
	Headless bool `yaml:"headless"`
	Install  bool `yaml:"install"`
}

// ExportConfig configures the export renderers.
type ExportConfig struct {
	// IncludeMetadata adds generation time and counts where a format
	// supports it.
	IncludeMetadata bool `yaml:"include_metadata"`

	Markdown OutputConfig `yaml:"markdown"`
	HTML     OutputConfig `yaml:"html"`
	OPML     OutputConfig `yaml:"opml"`
	YAML     OutputConfig `yaml:"yaml"`
}

// OutputConfig configures a single output adapter.
type OutputConfig struct {
	Style string `yaml:"style"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultPalette is offered to new environments in order.
var DefaultPalette = []string{
	"#4caf50", // green
	"#2196f3", // blue
	"#ff9800", // orange
	"#f44336", // red
	"#9c27b0", // purple
	"#607d8b", // grey
}

// Default returns a configuration with sensible defaults.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Path: filepath.Join("~", ".envswitch", "store.db"),
		},
		AllowDomains: append([]string(nil), environment.DefaultAllowList...),
		Palette:      append([]string(nil), DefaultPalette...),
		Discovery: DiscoveryConfig{
			Inputs: InputsConfig{
				Chrome:  InputConfig{Enabled: true},
				Edge:    InputConfig{Enabled: true},
				Firefox: InputConfig{Enabled: true},
				Safari:  InputConfig{Enabled: true},
			},
		},
		Export: ExportConfig{
			IncludeMetadata: true,
			Markdown:        OutputConfig{Style: "textual"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a file, merging with defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".envswitch", "config.yaml")
}

// LocalPath returns a local config file path if it exists.
func LocalPath() string {
	paths := []string{
		"envswitch.yaml",
		"envswitch.yml",
		".envswitch.yaml",
		".envswitch.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// StorePath returns the store path with ~ expanded.
func (c *Config) StorePath() string {
	return ExpandHome(c.Store.Path)
}

// Color returns the palette color for the n-th environment.
func (c *Config) Color(n int) string {
	if len(c.Palette) == 0 {
		return DefaultPalette[n%len(DefaultPalette)]
	}
	return c.Palette[n%len(c.Palette)]
}

// GetInputConfig returns the config for a specific input adapter.
func (c *Config) GetInputConfig(name string) InputConfig {
	switch name {
	case "chrome":
		return c.Discovery.Inputs.Chrome
	case "edge":
		return c.Discovery.Inputs.Edge
	case "firefox":
		return c.Discovery.Inputs.Firefox
	case "safari":
		return c.Discovery.Inputs.Safari
	case "chromium":
		return c.Discovery.Inputs.Chromium
	case "brave":
		return c.Discovery.Inputs.Brave
	default:
		return InputConfig{}
	}
}

// GetOutputConfig returns the config for a specific output adapter.
func (c *Config) GetOutputConfig(name string) OutputConfig {
	switch name {
	case "markdown":
		return c.Export.Markdown
	case "html":
		return c.Export.HTML
	case "opml":
		return c.Export.OPML
	case "yaml":
		return c.Export.YAML
	default:
		return OutputConfig{}
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
