package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openkraft/apigrade/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("APIGRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.apigrade")

	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("format", "tui")
	return v
}

func newRootCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "apigrade",
		Short: "Grade your API design",
		Long: "apigrade lints OpenAPI, Swagger and plain endpoint lists against a catalog of " +
			"REST design rules and grades the result from A to F.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing user config is fine; env and flags still apply.
			_ = v.ReadInConfig()

			logger.SetLogOutput(cmd.ErrOrStderr())
			logger.SetLogFormat(v.GetString("log_format"))
			if err := logger.SetLogLevel(v.GetString("log_level")); err != nil {
				return fmt.Errorf("invalid log level %q: %w", v.GetString("log_level"), err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	_ = v.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLintCmd(v))
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newRubricCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
