package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	rulesURI     = "apigrade://rules"
	rubricURI    = "apigrade://rubric"
	ruleTemplate = "apigrade://rules/{id}"
)

// registerResources registers all apigrade MCP resources on the given server.
func registerResources(s *server.MCPServer, h *handlers) {
	// 1. apigrade://rules - the rule catalog
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rule Catalog",
			mcplib.WithResourceDescription("Every API design rule with its effective severity"),
			mcplib.WithMIMEType("application/json"),
		),
		h.handleRulesResource,
	)

	// 2. apigrade://rubric - grading rubric
	s.AddResource(
		mcplib.NewResource(
			rubricURI,
			"Grading Rubric",
			mcplib.WithResourceDescription("How finding counts map to a letter grade"),
			mcplib.WithMIMEType("application/json"),
		),
		h.handleRubricResource,
	)

	// 3. apigrade://rules/{id} - one rule (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			ruleTemplate,
			"Rule",
			mcplib.WithTemplateDescription("Rationale, fix and examples for one rule"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		h.handleRuleResource,
	)
}

func (h *handlers) handleRulesResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	views, err := h.rules.List(h.configSource(), "")
	if err != nil {
		return nil, fmt.Errorf("listing rules failed: %w", err)
	}
	return jsonContents(rulesURI, views)
}

func (h *handlers) handleRubricResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonContents(rubricURI, rubricDoc())
}

func (h *handlers) handleRuleResource(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	id := strings.TrimPrefix(request.Params.URI, rulesURI+"/")
	if id == "" || id == request.Params.URI {
		return nil, fmt.Errorf("rule id is required")
	}

	view, err := h.rules.Explain(h.configSource(), id)
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, view)
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
