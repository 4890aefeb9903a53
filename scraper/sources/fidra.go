package sources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

var fidraCapacityRegexp = regexp.MustCompile(`(?i)([\d.]+)\s*(GWh|MWh|GW|MW)`)

// Fidra scrapes the Fidra Energy project page. Projects appear as headings
// with "Size:" and "Location:" lines in the sibling content below each one.
type Fidra struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewFidra(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *Fidra {
	return &Fidra{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *Fidra) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["fidra_energy"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("fidra: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("fidra: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "fidra_energy", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Fidra) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	var records []*models.ProjectRecord
	seen := utils.NewURLSet()

	doc.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		name := strings.TrimSpace(strings.ReplaceAll(h.Text(), "**", ""))
		if len(name) < 3 || len(name) > 120 {
			return
		}

		var region, capacityText string
		h.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			if sib.Is("h1, h2, h3, h4") {
				return false
			}
			text := sib.Text()
			if strings.Contains(text, "Size:") || strings.Contains(text, "GW") || strings.Contains(text, "MW") {
				if m := fidraCapacityRegexp.FindString(text); m != "" {
					capacityText = m
				}
			}
			if strings.Contains(text, "Location:") {
				loc := strings.TrimSpace(strings.Replace(text, "Location:", "", 1))
				if i := strings.IndexByte(loc, '\n'); i >= 0 {
					loc = loc[:i]
				}
				region = truncateRunes(strings.TrimSpace(loc), 80)
			}
			return true
		})

		if capacityText == "" && region == "" {
			return
		}
		if !seen.Add(strings.ToLower(truncateRunes(name, 60))) {
			return
		}

		records = append(records, services.NewProjectRecord(name, meta.Name, meta.URL,
			services.RowOptions{Region: region, CapacityMW: capacityText, Status: "Planned"}))
	})
	return records
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
