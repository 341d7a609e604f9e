package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of " + config.FileName,
		Long:  "Print the JSON schema of " + config.FileName + " for editor validation and completion.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
