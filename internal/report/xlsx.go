package report

import (
	"bytes"
	"fmt"
	"io"

	"cgf-quiz/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet = "Results"
	ReviewSheet  = "Review"

	dateLayout = "2006-01-02 15:04:05"
)

var (
	resultHeaders = []any{"Date", "Category", "Score", "Total", "Percentage", "Duration (s)"}
	reviewHeaders = []any{"#", "Question", "Your Answer", "Correct Answer", "Correct"}
)

// WriteResults renders results (chronological) as an xlsx workbook. The Review
// sheet covers the last result and is omitted when there are none.
func WriteResults(w io.Writer, results []domain.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, ResultsSheet, 1, resultHeaders); err != nil {
		return err
	}
	for i, r := range results {
		row := []any{
			r.Date.Format(dateLayout),
			r.Category,
			r.Score,
			r.Total,
			r.Percentage,
			r.Elapsed().Seconds(),
		}
		if err := writeRow(f, ResultsSheet, i+2, row); err != nil {
			return err
		}
	}

	if len(results) > 0 {
		if err := writeReview(f, results[len(results)-1]); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// Bytes is WriteResults into a buffer.
func Bytes(results []domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeReview(f *excelize.File, latest domain.Result) error {
	if _, err := f.NewSheet(ReviewSheet); err != nil {
		return fmt.Errorf("create review sheet: %w", err)
	}
	if err := writeRow(f, ReviewSheet, 1, reviewHeaders); err != nil {
		return err
	}
	for i, item := range latest.Review() {
		chosen := ""
		if item.Chosen >= 0 && item.Chosen < len(item.Question.Answers) {
			chosen = item.Question.Answers[item.Chosen]
		}
		correct := "no"
		if item.Correct {
			correct = "yes"
		}
		row := []any{i + 1, item.Question.Text, chosen, item.Question.Answers[item.Question.Correct], correct}
		if err := writeRow(f, ReviewSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
