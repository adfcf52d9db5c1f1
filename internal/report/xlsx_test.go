package report

import (
	"bytes"
	"testing"
	"time"

	"cgf-quiz/internal/domain"
	"github.com/xuri/excelize/v2"
)

func sampleResult() domain.Result {
	qs := domain.DefaultQuestions()[5:7]
	return domain.Result{
		ID:         "r-1",
		Date:       time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
		Score:      1,
		Total:      2,
		Percentage: 50,
		Duration:   90000,
		Category:   "Red Zone Security",
		Answers:    []int{1, domain.Unanswered},
		Questions:  qs,
	}
}

func TestWriteResults(t *testing.T) {
	data, err := Bytes([]domain.Result{sampleResult()})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ResultsSheet)
	if err != nil {
		t.Fatalf("results rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d", len(rows))
	}
	want := []string{"2026-10-16 09:30:00", "Red Zone Security", "1", "2", "50", "90"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Fatalf("column %d: expected %q, got %q", i, v, rows[1][i])
		}
	}

	review, err := f.GetRows(ReviewSheet)
	if err != nil {
		t.Fatalf("review rows: %v", err)
	}
	if len(review) != 3 {
		t.Fatalf("expected header and two review rows, got %d", len(review))
	}
	if review[1][4] != "yes" || review[2][4] != "no" {
		t.Fatalf("unexpected correctness column: %v / %v", review[1], review[2])
	}
	if review[2][2] != "" {
		t.Fatalf("unanswered question should have empty answer, got %q", review[2][2])
	}
}

func TestWriteResultsEmpty(t *testing.T) {
	data, err := Bytes(nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex(ReviewSheet); idx != -1 {
		t.Fatalf("expected no review sheet")
	}
	rows, _ := f.GetRows(ResultsSheet)
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
