package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"bess-tracker/models"
)

// projectColumns is the fixed column order of every dataset CSV. New columns
// are only ever appended at the end so previously written files keep lining up.
var projectColumns = []string{
	"scraped_at", "country", "region", "site_name", "capacity_mw",
	"capacity_mw_numeric", "status", "investment_opportunity", "source", "url",
}

// CSVWriter writes project records to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(projectColumns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends all records to the CSV file.
func (c *CSVWriter) Write(records []*models.ProjectRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		capacity := ""
		if r.CapacityMWNumeric != nil {
			capacity = strconv.FormatFloat(*r.CapacityMWNumeric, 'f', -1, 64)
		}
		row := []string{
			r.ScrapedAt.Format(time.RFC3339),
			r.Country,
			r.Region,
			r.SiteName,
			r.CapacityMW,
			capacity,
			r.Status,
			r.InvestmentOpportunity,
			r.Source,
			r.URL,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
