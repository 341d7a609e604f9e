package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/apigrade/internal/adapters/outbound/export"
	"github.com/openkraft/apigrade/internal/application"
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/grading"
	"github.com/openkraft/apigrade/internal/logger"
)

// inlineSource names specs passed as tool content.
const inlineSource = "inline"

// registerTools registers all apigrade MCP tools on the given server.
func registerTools(s *server.MCPServer, h *handlers) {
	// 1. apigrade_lint
	s.AddTool(
		mcplib.NewTool("apigrade_lint",
			mcplib.WithDescription("Grade an API description (OpenAPI 3, Swagger 2 or an endpoint list) and return the findings. Pass either a path or the spec content."),
			mcplib.WithString("path",
				mcplib.Description("Spec file or directory, relative to the server's working directory"),
			),
			mcplib.WithString("content",
				mcplib.Description("Spec content to grade instead of a file"),
			),
			mcplib.WithString("visibility",
				mcplib.Enum(string(domain.VisibilityPublic), string(domain.VisibilityInternal)),
				mcplib.Description("Override the API visibility from the project config"),
			),
			mcplib.WithString("format",
				mcplib.Enum("json", "markdown"),
				mcplib.Description("Result format (default json)"),
			),
		),
		h.handleLint,
	)

	// 2. apigrade_list_rules
	s.AddTool(
		mcplib.NewTool("apigrade_list_rules",
			mcplib.WithDescription("List the API design rules with their effective severity"),
			mcplib.WithString("category",
				mcplib.Description("Only list rules of this category (naming, http_semantics, response_design, error_handling, versioning, security, documentation)"),
			),
		),
		h.handleListRules,
	)

	// 3. apigrade_explain_rule
	s.AddTool(
		mcplib.NewTool("apigrade_explain_rule",
			mcplib.WithDescription("Explain one rule: rationale, fix and a bad and good example"),
			mcplib.WithString("id",
				mcplib.Required(),
				mcplib.Description("Rule id, e.g. NAM001"),
			),
		),
		h.handleExplainRule,
	)

	// 4. apigrade_rubric
	s.AddTool(
		mcplib.NewTool("apigrade_rubric",
			mcplib.WithDescription("Returns how finding counts map to a letter grade"),
		),
		h.handleRubric,
	)
}

func (h *handlers) handleLint(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args := request.GetArguments()
	path, _ := args["path"].(string)
	content, _ := args["content"].(string)
	visibility, _ := args["visibility"].(string)
	format, _ := args["format"].(string)

	if (path == "") == (content == "") {
		return errorResult("exactly one of path or content is required"), nil
	}
	if format != "" && format != "json" && format != "markdown" {
		return errorResult(fmt.Sprintf("unknown format %q (valid: json, markdown)", format)), nil
	}

	opts := application.LintOptions{Visibility: domain.Visibility(visibility)}
	var reports []*domain.Report
	if content != "" {
		opts.Config = h.configSource()
		r, err := h.lint.LintContent(ctx, inlineSource, []byte(content), opts)
		if err != nil {
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}
		reports = []*domain.Report{r}
	} else {
		if !filepath.IsAbs(path) {
			path = filepath.Join(h.workDir, path)
		}
		found, err := h.lint.Lint(ctx, []string{path}, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}
		reports = found
	}
	logger.G(ctx).WithField("reports", len(reports)).Debug("mcp lint done")

	if format == "markdown" {
		return textResult(export.MarkdownAll(reports...)), nil
	}
	if len(reports) == 1 {
		return jsonResult(reports[0])
	}
	return jsonResult(reports)
}

func (h *handlers) handleListRules(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	category, _ := request.GetArguments()["category"].(string)

	views, err := h.rules.List(h.configSource(), domain.Category(category))
	if err != nil {
		return errorResult(fmt.Sprintf("listing rules failed: %v", err)), nil
	}
	if views == nil {
		views = []application.RuleView{}
	}
	return jsonResult(views)
}

func (h *handlers) handleExplainRule(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	view, err := h.rules.Explain(h.configSource(), id)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(view)
}

func (h *handlers) handleRubric(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return jsonResult(rubricDoc())
}

type rubric struct {
	Grades []grading.RubricRow `json:"grades"`
	Note   string              `json:"note"`
}

func rubricDoc() rubric {
	return rubric{Grades: grading.Rubric, Note: grading.RubricNote}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
