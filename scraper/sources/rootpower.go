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

// Trailing "— 50MW" style suffix on a Root Power project link.
var rootPowerSuffixRegexp = regexp.MustCompile(`(?i)\s*[—–-]\s*[\d.]+\s*MW\s*$`)

// RootPower scrapes the Root Power BESS portfolio: project links whose text
// carries the site name and usually the capacity.
type RootPower struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewRootPower(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *RootPower {
	return &RootPower{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *RootPower) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["root_power"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("root power: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("root power: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "root_power", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *RootPower) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	base := siteBase(meta.URL)
	var records []*models.ProjectRecord
	seen := utils.NewURLSet()

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, "/projects/") && !strings.Contains(href, "/our-projects/") {
			return
		}

		linkText := strings.TrimSpace(a.Text())
		lowerHref := strings.ToLower(href)
		lowerText := strings.ToLower(linkText)
		if !strings.Contains(lowerHref, "bess") && !strings.Contains(lowerHref, "battery") &&
			!strings.Contains(lowerText, "bess") && !strings.Contains(lowerText, "battery") &&
			!strings.Contains(lowerText, "mw") {
			return
		}

		capacityText := capacityTokenRegexp.FindString(linkText)
		name := linkText
		if capacityText != "" {
			name = strings.TrimSpace(rootPowerSuffixRegexp.ReplaceAllString(linkText, ""))
		}
		if name == "" || len(name) > 150 {
			return
		}

		projectURL := absoluteURL(base, href)
		if !seen.Add(projectURL + "|" + strings.ToLower(name)) {
			return
		}

		records = append(records, services.NewProjectRecord(name, meta.Name, projectURL,
			services.RowOptions{CapacityMW: capacityText}))
	})
	return records
}
