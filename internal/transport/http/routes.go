package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/report"
)

const (
	maxImportBytes = 5 << 20
	xlsxType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("GET /questions/export", h.ExportQuestions)
	mux.HandleFunc("POST /questions/import", h.ImportQuestions)
	mux.HandleFunc("GET /results/report.xlsx", h.ResultsReport)
	return mux
}

// ExportQuestions serves the question collection as a JSON download.
func (h *Handler) ExportQuestions(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	data, err := h.ctrl.ExportQuestions()
	h.mu.Unlock()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", app.ExportFilename(h.now())))
	w.Write(data)
}

// ImportQuestions merges the request body and replies with the Outcome.
func (h *Handler) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "import file too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	h.mu.Lock()
	out := h.ctrl.ImportQuestions(r.Context(), data)
	h.mu.Unlock()

	status := http.StatusOK
	if !out.OK {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)
}

// ResultsReport renders the result history as an xlsx workbook.
func (h *Handler) ResultsReport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	results := h.ctrl.AllResults()
	h.mu.Unlock()

	data, err := report.Bytes(results)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report failed", "error", err)
		http.Error(w, "report failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="cgf-quiz-results.xlsx"`)
	w.Write(data)
}
