package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"bess-tracker/models"
)

// MinProjectsForSummary is the minimum deduplicated record count for a run
// to be considered complete. Partial runs (a few sources down) would poison
// the week-over-week trend, so they are silently excluded from history.
const MinProjectsForSummary = 50

// summaryFileName holds one row per qualifying run, append-only.
const summaryFileName = "uk_investment_scope_summary.csv"

var summaryColumns = []string{
	"run_date", "run_at", "total_projects", "total_mw",
	"count_planned", "count_consented", "count_in_construction", "count_operational",
	"count_early_stage_development", "count_construction_finance", "count_ma_offtake",
}

// HistoryWriter appends run summaries to the investment scope history file.
type HistoryWriter struct {
	path string
}

// NewHistoryWriter creates a HistoryWriter targeting dir/uk_investment_scope_summary.csv.
func NewHistoryWriter(dir string) *HistoryWriter {
	return &HistoryWriter{path: filepath.Join(dir, summaryFileName)}
}

// Append writes one summary row unless the run is below the minimum sample
// size, in which case it returns the target path without writing — an
// undersized run is a defined no-op, not an error. Files written before the
// run_at column existed keep their original column set.
func (h *HistoryWriter) Append(summary *models.Summary) (string, error) {
	if summary.TotalProjects < MinProjectsForSummary {
		return h.path, nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return h.path, fmt.Errorf("history: create output dir: %w", err)
	}

	columns := summaryColumns
	existed := false
	if header, err := readHeader(h.path); err == nil {
		existed = true
		if !contains(header, "run_at") {
			columns = without(summaryColumns, "run_at")
		}
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return h.path, fmt.Errorf("history: open %q: %w", h.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !existed {
		if err := w.Write(columns); err != nil {
			return h.path, fmt.Errorf("history: write header: %w", err)
		}
	}
	if err := w.Write(summaryRow(summary, columns)); err != nil {
		return h.path, fmt.Errorf("history: write row: %w", err)
	}
	w.Flush()
	return h.path, w.Error()
}

// Path returns the history file location.
func (h *HistoryWriter) Path() string {
	return h.path
}

func summaryRow(s *models.Summary, columns []string) []string {
	values := map[string]string{
		"run_date":                      s.RunDate,
		"run_at":                        s.RunAt,
		"total_projects":                strconv.Itoa(s.TotalProjects),
		"total_mw":                      strconv.FormatFloat(s.TotalMW, 'f', 1, 64),
		"count_planned":                 strconv.Itoa(s.CountPlanned),
		"count_consented":               strconv.Itoa(s.CountConsented),
		"count_in_construction":         strconv.Itoa(s.CountInConstruction),
		"count_operational":             strconv.Itoa(s.CountOperational),
		"count_early_stage_development": strconv.Itoa(s.CountEarlyStageDevelopment),
		"count_construction_finance":    strconv.Itoa(s.CountConstructionFinance),
		"count_ma_offtake":              strconv.Itoa(s.CountMAOfftake),
	}

	row := make([]string, 0, len(columns))
	for _, col := range columns {
		row = append(row, values[col])
	}
	return row
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	return header, err
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func without(values []string, target string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
