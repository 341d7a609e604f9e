package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/apigrade/internal/adapters/outbound/tui"
	"github.com/openkraft/apigrade/internal/domain/grading"
)

func newRubricCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Show how findings map to a grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return writeJSON(cmd, struct {
					Grades []grading.RubricRow `json:"grades"`
					Note   string              `json:"note"`
				}{Grades: grading.Rubric, Note: grading.RubricNote})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRubric())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rubric as JSON")
	return cmd
}
