package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"cgf-quiz/internal/domain"
	"github.com/spf13/cobra"
)

// NewHistoryCmd prints recent results, most recent first.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent quiz results",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			return printHistory(cmd.OutOrStdout(), e.ctrl.History(limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of results (default history.limit)")
	return cmd
}

func printHistory(w io.Writer, results []domain.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no results yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCATEGORY\tSCORE\tPERCENT\tDURATION")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d%%\t%s\n",
			r.Date.Local().Format("2006-01-02 15:04"), r.Category, r.Score, r.Total, r.Percentage, r.Elapsed().Round(time.Second))
	}
	return tw.Flush()
}
