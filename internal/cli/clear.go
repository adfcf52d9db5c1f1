package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd wipes questions and results. Both --yes and --really are required.
func NewClearCmd(configPath *string) *cobra.Command {
	var confirmed, reconfirmed bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all questions and results and restore the default questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.outcomeErr(e.ctrl.ClearAll(cmd.Context(), confirmed, reconfirmed)); err != nil {
				return fmt.Errorf("%w (pass --yes --really to confirm)", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deleting all data")
	cmd.Flags().BoolVar(&reconfirmed, "really", false, "confirm again")
	return cmd
}
