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

// Package mcp serves the environment list to MCP clients over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/adapter"
	"github.com/cloudygreybeard/envswitch/pkg/config"
	"github.com/cloudygreybeard/envswitch/pkg/output"
	"github.com/cloudygreybeard/envswitch/pkg/store"
)

const (
	subsystem = "mcp"

	uriEnvironments = "envswitch://environments"
	uriMarkdown     = "envswitch://markdown"
)

// Server answers MCP requests from the environment store. It never writes
// to the store.
type Server struct {
	store  *store.Store
	config *config.Config
	now    func() time.Time

	mcp *server.MCPServer
}

// NewServer creates a server reading from s.
func NewServer(s *store.Store, cfg *config.Config, version string) *Server {
	srv := &Server{store: s, config: cfg, now: time.Now}
	srv.mcp = server.NewMCPServer(
		"envswitch",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	srv.registerResources()
	srv.registerTools()
	return srv
}

// Run serves stdin and stdout until EOF or ctx is done. Cancellation is a
// normal shutdown.
func (s *Server) Run(ctx context.Context) error {
	err := s.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve reads JSON-RPC messages from r and writes replies to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(os.Stderr, "envswitch mcp: ", 0))
	logging.Info(subsystem, "serving on stdio")
	return stdio.Listen(ctx, r, w)
}

type resourceSpec struct {
	uri, name, description, mime, format string
}

var resources = []resourceSpec{
	{
		uri:         uriEnvironments,
		name:        "ServiceNow environments",
		description: "Registered environments and groups in the import format",
		mime:        "application/json",
		format:      "json",
	},
	{
		uri:         uriMarkdown,
		name:        "ServiceNow environments (Markdown)",
		description: "Registered environments grouped as in the switcher list",
		mime:        "text/markdown",
		format:      "markdown",
	},
}

func (s *Server) registerResources() {
	for _, spec := range resources {
		res := mcp.NewResource(spec.uri, spec.name,
			mcp.WithResourceDescription(spec.description),
			mcp.WithMIMEType(spec.mime),
		)
		s.mcp.AddResource(res, s.resourceHandler(spec))
	}
}

func (s *Server) resourceHandler(spec resourceSpec) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.render(ctx, spec.format)
		if err != nil {
			logging.Debug(subsystem, "reading %s: %v", spec.uri, err)
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: spec.uri, MIMEType: spec.mime, Text: text},
		}, nil
	}
}

// render writes the stored document with the named output adapter.
func (s *Server) render(ctx context.Context, format string) (string, error) {
	renderer, ok := adapter.GetOutput(format)
	if !ok {
		return "", fmt.Errorf("no renderer for %s", format)
	}
	doc, err := s.store.Document(ctx)
	if err != nil {
		return "", err
	}
	data, err := renderer.Render(doc, output.RenderOptions{Now: s.now()})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
