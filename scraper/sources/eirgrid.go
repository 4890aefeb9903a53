package sources

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

const eirGridMaxDocuments = 20

// EirGrid records the connected-and-contracted generator lists published by
// EirGrid for Ireland. The lists themselves are PDFs, so each linked document
// becomes one reference row; the capacity detail stays in the document.
type EirGrid struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewEirGrid(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *EirGrid {
	return &EirGrid{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *EirGrid) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["eirgrid"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("eirgrid: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("eirgrid: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, strings.ReplaceAll(meta.Country, " ", "_"), "eirgrid_ireland", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *EirGrid) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	var records []*models.ProjectRecord

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		text := strings.TrimSpace(a.Text())
		if len(text) < 5 {
			return true
		}
		lower := strings.ToLower(href)
		if !strings.Contains(lower, ".pdf") && !strings.Contains(lower, "contract") &&
			!strings.Contains(lower, "connect") && !strings.Contains(lower, "generator") {
			return true
		}

		rec := services.NewProjectRecord(truncateRunes(text, 200), meta.Name, absoluteURL(meta.URL, href),
			services.RowOptions{Country: meta.Country, Region: "Ireland", Status: "Reference"})
		records = append(records, rec)
		return len(records) < eirGridMaxDocuments
	})
	return records
}
