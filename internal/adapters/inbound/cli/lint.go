package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/adapters/outbound/export"
	"github.com/openkraft/apigrade/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/apigrade/internal/adapters/outbound/ingest"
	"github.com/openkraft/apigrade/internal/adapters/outbound/scanner"
	"github.com/openkraft/apigrade/internal/adapters/outbound/tui"
	"github.com/openkraft/apigrade/internal/application"
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

const stdinArg = "-"

var formats = []string{"tui", "json", "markdown", "html", "sarif"}

func newLintService() *application.LintService {
	return application.NewLintService(ingest.New(), scanner.New(), config.New(), gitinfo.New())
}

func newLintCmd(v *viper.Viper) *cobra.Command {
	var (
		outputPath string
		configFile string
		visibility string
		ciMode     bool
		minGrade   string
		badge      bool
	)

	cmd := &cobra.Command{
		Use:   "lint [spec|dir|-]...",
		Short: "Grade API descriptions",
		Long: "Lint OpenAPI 3, Swagger 2 or plain endpoint lists and grade each one from A to F.\n" +
			"Directories are searched for spec files. Use - to read a spec from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format := v.GetString("format")
			if !validFormat(format) {
				return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(formats, ", "))
			}
			if minGrade != "" && domain.GradeRank(minGrade) < 0 {
				return fmt.Errorf("unknown grade %q (valid: %s)", minGrade, strings.Join(domain.Grades, ", "))
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			opts := application.LintOptions{
				Config:     application.ConfigSource{File: configFile},
				Visibility: domain.Visibility(visibility),
			}
			reports, err := lintAll(cmd.Context(), newLintService(), cmd.InOrStdin(), args, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if badge {
				for _, r := range reports {
					if format == "markdown" {
						fmt.Fprintln(out, export.BadgeMarkdown(r))
					} else {
						fmt.Fprintln(out, export.BadgeURL(r))
					}
				}
			} else if err := writeReports(out, format, reports, configFile); err != nil {
				return err
			}

			if !ciMode {
				return nil
			}

			// Keep machine-readable output clean.
			gate := cmd.ErrOrStderr()
			if format == "tui" && outputPath == "" && !badge {
				gate = cmd.OutOrStdout()
			}
			fmt.Fprint(gate, tui.RenderGate(reports, minGrade))

			var failed []string
			for _, r := range reports {
				if !r.Passes(minGrade) {
					failed = append(failed, fmt.Sprintf("%s graded %s (minimum %s)", r.Source, r.Grade, r.Threshold(minGrade)))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("grade below minimum: %s", strings.Join(failed, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "tui", "Output format ("+strings.Join(formats, ", ")+")")
	_ = v.BindPFlag("format", cmd.Flags().Lookup("format"))
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&configFile, "config", "", "Project config file (default: .apigrade.yaml next to each spec)")
	cmd.Flags().StringVar(&visibility, "visibility", "", "Override API visibility (public, internal)")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if a grade is below the minimum")
	cmd.Flags().StringVar(&minGrade, "min-grade", "", "Minimum grade for CI mode (default: min_grade from config, else C)")
	cmd.Flags().BoolVar(&badge, "badge", false, "Output shields.io badge URLs (Markdown images with --format markdown)")

	return cmd
}

func validFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

// lintAll grades args in order. Stdin has no directory of its own, so its
// config comes from the working directory unless --config is given.
func lintAll(ctx context.Context, svc *application.LintService, stdin io.Reader, args []string, opts application.LintOptions) ([]*domain.Report, error) {
	var reports []*domain.Report
	for _, arg := range args {
		if arg != stdinArg {
			found, err := svc.Lint(ctx, []string{arg}, opts)
			if err != nil {
				return nil, err
			}
			reports = append(reports, found...)
			continue
		}

		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		stdinOpts := opts
		if stdinOpts.Config.File == "" {
			stdinOpts.Config.Dir = "."
		}
		r, err := svc.LintContent(ctx, "<stdin>", data, stdinOpts)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func writeReports(w io.Writer, format string, reports []*domain.Report, configFile string) error {
	switch format {
	case "json":
		return export.WriteJSON(w, reports...)
	case "markdown":
		_, err := io.WriteString(w, export.MarkdownAll(reports...))
		return err
	case "html":
		page, err := export.HTML(reports...)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	case "sarif":
		catalog, err := sarifCatalog(configFile)
		if err != nil {
			return err
		}
		data, err := export.SARIF(reports, catalog, version)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, tui.RenderReport(r))
		}
		return nil
	}
}

// sarifCatalog resolves rule descriptors, including custom rules from an
// explicit config. Custom rules of per-spec configs fall back to the
// descriptor SARIF builds from the finding.
func sarifCatalog(configFile string) (*rules.Catalog, error) {
	if configFile == "" {
		return rules.Builtin(), nil
	}
	cfg, err := config.New().LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return application.BuildCatalog(cfg)
}
