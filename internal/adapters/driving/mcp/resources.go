package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quill/internal/core/domain"
)

const (
	uriScheme = "quill://"

	sourcesURI  = uriScheme + "sources"
	settingsURI = uriScheme + "settings"
	sourcePath  = uriScheme + "sources/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sourcesURI,
		Name:        "sources",
		Description: "Registered completion sources in registration order",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         settingsURI,
		Name:        "settings",
		Description: "Active completion settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: sourcePath + "{name}",
		Name:        "source",
		Description: "A single registered completion source",
		MIMEType:    "application/json",
	}, s.handleSourceResource)
}

type sourceInfo struct {
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Description string `json:"description"`
}

func describe(name string, position int) sourceInfo {
	desc := domain.SourceKind(name).Description()
	return sourceInfo{Name: name, Position: position, Description: desc}
}

// handleSourcesResource lists registered sources.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	names := s.ports.Completion.Sources()
	infos := make([]sourceInfo, len(names))
	for i, name := range names {
		infos[i] = describe(name, i)
	}
	return jsonResult(req.Params.URI, infos)
}

// handleSourceResource describes one source by name.
func (s *Server) handleSourceResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractSourceName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	pos := slices.Index(s.ports.Completion.Sources(), name)
	if pos < 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, describe(name, pos))
}

type settingsInfo struct {
	MaxResults           int      `json:"max_results"`
	Debounce             string   `json:"debounce"`
	RelayBuffer          int      `json:"relay_buffer"`
	MaxConcurrentSources int      `json:"max_concurrent_sources"`
	SourceTimeout        string   `json:"source_timeout"`
	ConfigPath           string   `json:"config_path,omitempty"`
	Enabled              []string `json:"enabled,omitempty"`
}

// handleSettingsResource reports the settings the orchestrator runs with.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	cs := s.ports.Completion.Settings()
	info := settingsInfo{
		MaxResults:           cs.MaxResults,
		Debounce:             cs.Debounce.String(),
		RelayBuffer:          cs.RelayBuffer,
		MaxConcurrentSources: cs.MaxConcurrentSources,
		SourceTimeout:        cs.SourceTimeout.String(),
	}

	if s.ports.Settings != nil {
		info.ConfigPath = s.ports.Settings.ConfigPath()
		app, err := s.ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		for _, k := range app.Sources.Enabled {
			info.Enabled = append(info.Enabled, k.String())
		}
	}

	return jsonResult(req.Params.URI, info)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceName returns the name in quill://sources/{name}, or "".
func extractSourceName(uri string) string {
	if !strings.HasPrefix(uri, sourcePath) {
		return ""
	}
	name := strings.TrimPrefix(uri, sourcePath)
	if name == "" || strings.Contains(name, "/") {
		return ""
	}
	return name
}
