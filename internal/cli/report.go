package cli

import (
	"fmt"
	"os"

	"cgf-quiz/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd writes the result history workbook.
func NewReportCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write all results to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := report.WriteResults(f, e.ctrl.AllResults()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "cgf-quiz-results.xlsx", "output file")
	return cmd
}
