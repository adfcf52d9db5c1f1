package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/domain"
	"github.com/spf13/cobra"
)

// NewQuestionsCmd groups the offline question bank admin commands.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question bank",
	}
	cmd.AddCommand(
		newQuestionsListCmd(configPath),
		newQuestionsAddCmd(configPath),
		newQuestionsDeleteCmd(configPath),
		newQuestionsExportCmd(configPath),
		newQuestionsImportCmd(configPath),
		newQuestionsResetCmd(configPath),
	)
	return cmd
}

func newQuestionsListCmd(configPath *string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions, optionally filtered by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			e.ctrl.FilterQuestions(category)
			return printAdminView(cmd.OutOrStdout(), e.ctrl.AdminView())
		},
	}
	cmd.Flags().StringVar(&category, "category", domain.AllCategories, "category filter")
	return cmd
}

func printAdminView(w io.Writer, entries []app.AdminEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tID\tCATEGORY\tANSWERS\tQUESTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\n", e.Position, e.Question.ID, e.Question.Category, len(e.Question.Answers), e.Question.Text)
	}
	return tw.Flush()
}

func newQuestionsAddCmd(configPath *string) *cobra.Command {
	var (
		in      domain.QuestionInput
		correct int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			if cmd.Flags().Changed("correct") {
				in.Correct = &correct
			}
			out := e.ctrl.AddQuestion(cmd.Context(), in)
			if err := e.outcomeErr(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "question added, %d in bank\n", out.State.QuestionCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Text, "text", "", "question text")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	cmd.Flags().StringArrayVar(&in.Answers, "answer", nil, "answer option (repeat for each)")
	cmd.Flags().IntVar(&correct, "correct", 0, "zero-based index of the correct answer")
	return cmd
}

func newQuestionsDeleteCmd(configPath *string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "delete POSITION",
		Short: "Delete the question at POSITION of the (filtered) list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("position must be a number: %w", err)
			}
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			e.ctrl.FilterQuestions(category)
			out := e.ctrl.DeleteQuestion(cmd.Context(), pos)
			if err := e.outcomeErr(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "question deleted, %d in bank\n", out.State.QuestionCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", domain.AllCategories, "category filter the position refers to")
	return cmd
}

func newQuestionsExportCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the question bank as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			data, err := e.ctrl.ExportQuestions()
			if err != nil {
				return err
			}
			if output == "" {
				output = app.ExportFilename(time.Now())
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, '-' for stdout (default cgf-quiz-questions-YYYY-MM-DD.json)")
	return cmd
}

func newQuestionsImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge questions from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			out := e.ctrl.ImportQuestions(cmd.Context(), data)
			if err := e.outcomeErr(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions, %d in bank\n", out.Imported, out.State.QuestionCount)
			return nil
		},
	}
}

func newQuestionsResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the question bank with the default questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.close()
			return e.outcomeErr(e.ctrl.ResetQuestions(cmd.Context()))
		},
	}
}
