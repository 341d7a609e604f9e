package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/apigrade/internal/adapters/outbound/ingest"
	"github.com/openkraft/apigrade/internal/adapters/outbound/scanner"
	"github.com/openkraft/apigrade/internal/application"
)

// NewAPIGradeMCPServer creates an MCP server with every apigrade tool and
// resource registered. Relative spec paths and the project config resolve
// against workDir.
func NewAPIGradeMCPServer(workDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"apigrade",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	h := newHandlers(workDir)
	registerTools(s, h)
	registerResources(s, h)

	return s
}

type handlers struct {
	workDir string
	lint    *application.LintService
	rules   *application.RulesService
}

func newHandlers(workDir string) *handlers {
	return &handlers{
		workDir: workDir,
		lint:    application.NewLintService(ingest.New(), scanner.New(), config.New(), gitinfo.New()),
		rules:   application.NewRulesService(config.New()),
	}
}

func (h *handlers) configSource() application.ConfigSource {
	return application.ConfigSource{Dir: h.workDir}
}
