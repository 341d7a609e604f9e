package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/adapters/outbound/tui"
	"github.com/openkraft/apigrade/internal/application"
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	var (
		category   string
		configFile string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the design rule catalog",
		Long:  "List every rule with the severity it has under the project config in the current directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := application.NewRulesService(config.New())
			views, err := svc.List(rulesConfigSource(configFile), domain.Category(category))
			if err != nil {
				return err
			}

			if jsonOutput {
				if views == nil {
					views = []application.RuleView{}
				}
				return writeJSON(cmd, views)
			}

			list := make([]rules.Rule, 0, len(views))
			severities := make(map[string]domain.Severity, len(views))
			for _, rv := range views {
				list = append(list, rv.Rule)
				severities[rv.ID] = rv.EffectiveSeverity
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(list, func(r rules.Rule) domain.Severity {
				return severities[r.ID]
			}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Project config file (default: ./.apigrade.yaml)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&category, "category", "", "Only list rules of this category")

	cmd.AddCommand(newRulesShowCmd(&configFile, &jsonOutput))
	return cmd
}

func newRulesShowCmd(configFile *string, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <rule-id>",
		Short: "Explain one rule",
		Long:  "Show why a rule exists, how to fix violations, and a bad and good example.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := application.NewRulesService(config.New())
			rv, err := svc.Explain(rulesConfigSource(*configFile), args[0])
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(cmd, rv)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRule(rv.Rule, rv.EffectiveSeverity))
			return nil
		},
	}
}

func rulesConfigSource(configFile string) application.ConfigSource {
	if configFile != "" {
		return application.ConfigSource{File: configFile}
	}
	return application.ConfigSource{Dir: "."}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
