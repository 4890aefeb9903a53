// Package sources contains one bespoke adapter per upstream listing site.
// Each adapter is extraction plumbing tied to one site's markup or download
// format; everything they emit goes through the canonical row builder.
package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/storage"
)

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// absoluteURL resolves href against base; invalid inputs fall back to href.
func absoluteURL(base, href string) string {
	if href == "" {
		return base
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// parseCSVTable parses CSV text into one map per data row, keyed by header.
// Ragged rows are tolerated; upstream registers are not tidy.
func parseCSVTable(text string) ([]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// findColumn returns the first key containing all keywords, case-insensitive.
// Upstream column names drift between extracts, so lookup is fuzzy.
func findColumn(row map[string]string, keywords ...string) string {
	for col := range row {
		lower := strings.ToLower(col)
		all := true
		for _, kw := range keywords {
			if !strings.Contains(lower, kw) {
				all = false
				break
			}
		}
		if all {
			return col
		}
	}
	return ""
}

// firstColumn tries several keyword sets in order and returns the first hit.
func firstColumn(row map[string]string, keywordSets ...[]string) string {
	for _, kws := range keywordSets {
		if col := findColumn(row, kws...); col != "" {
			return col
		}
	}
	return ""
}

// saveResults writes a per-source CSV/JSON snapshot when the options ask for
// one. The multi-source runner always disables this and persists the merged
// dataset itself.
func saveResults(cfg *config.Config, records []*models.ProjectRecord, country, sourceKey string, opts scraper.Options) error {
	if (!opts.SaveCSV && !opts.SaveJSON) || len(records) == 0 {
		return nil
	}

	safe := func(s string) string {
		s = strings.ToLower(strings.ReplaceAll(s, " ", "_"))
		return strings.ReplaceAll(s, "-", "_")
	}
	base := fmt.Sprintf("%s/bess_%s_%s", cfg.OutputDir, safe(country), safe(sourceKey))
	if opts.DateSuffix != "" {
		base += "_" + opts.DateSuffix
	}

	if opts.SaveCSV {
		w, err := storage.NewCSVWriter(base + ".csv")
		if err != nil {
			return err
		}
		if err := w.Write(records); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
	}
	if opts.SaveJSON {
		if err := storage.WriteJSON(base+".json", records); err != nil {
			return err
		}
	}
	return nil
}
