package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		visibility string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a " + config.FileName + " configuration file",
		Long:  "Create a " + config.FileName + " with sensible defaults next to your API descriptions.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			vis := domain.Visibility(visibility)
			if !vis.IsValid() {
				return fmt.Errorf("unknown visibility %q (valid: public, internal)", visibility)
			}

			dest := filepath.Join(absPath, config.FileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			data, err := generateConfig(vis)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, data, 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", string(domain.VisibilityPublic), "API visibility (public, internal)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing "+config.FileName)

	return cmd
}

const configHeader = `# apigrade configuration
# See: https://github.com/openkraft/apigrade

`

const configExamples = `
# disable:
#   - DOC003
#   - NAM00*

# severity:
#   VER001: suggestion

# ignore_paths:
#   - /internal/**
#   - /users/{id}/avatar

# custom_rules:
#   - id: CUS001
#     category: security
#     severity: critical
#     title: Admin endpoints must be secured
#     fix: Apply the adminAuth security scheme
#     when: 'path.startsWith("/admin") && !secured'
`

// generateConfig renders the starting config followed by commented examples
// of the optional settings.
func generateConfig(vis domain.Visibility) ([]byte, error) {
	cfg := domain.DefaultConfig()
	cfg.Visibility = vis
	cfg.MinGrade = domain.DefaultMinGrade

	body, err := config.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	out := append([]byte(configHeader), body...)
	return append(out, configExamples...), nil
}
