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

const solarPortalMax = 25

var solarPortalCapacityRegexp = regexp.MustCompile(`(?i)[\d.]+\s*MW|[\d.]+\s*GW|[\d.]+\s*MWh`)

var solarPortalTopicKeywords = []string{"battery", "storage", "solar", "renewable", "pv", "mw", "grid", "energy"}

// SolarPortal scrapes Solar Power Portal headlines for UK battery storage
// news. The battery section URL moves around, so a list of candidates is
// tried in order before giving up.
type SolarPortal struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewSolarPortal(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *SolarPortal {
	return &SolarPortal{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *SolarPortal) sectionURLs(base string) []string {
	return []string{
		base + "/energy-storage/battery-storage",
		base + "/energy-storage",
		base + "/keyword/battery-storage",
		base,
	}
}

func (s *SolarPortal) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["solar_power_portal"]
	base := siteBase(meta.URL)

	var html string
	var lastErr error
	for _, u := range s.sectionURLs(base) {
		text, err := s.fetch.GetText(u)
		if err != nil {
			s.logger.Debug("solar power portal: %s unavailable: %v", u, err)
			lastErr = err
			continue
		}
		html = text
		break
	}
	if html == "" {
		return nil, fmt.Errorf("solar power portal: no section reachable: %w", lastErr)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("solar power portal: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "solar_power_portal", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SolarPortal) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	base := siteBase(meta.URL)
	var records []*models.ProjectRecord
	seen := utils.NewURLSet()

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !strings.Contains(href, "solarpowerportal.co.uk") {
			return true
		}
		if strings.Contains(href, "/tag/") || strings.Contains(href, "/author/") ||
			strings.Contains(href, "/page/") || strings.Contains(href, "/category/") {
			return true
		}
		title := strings.TrimSpace(a.Text())
		if len(title) < 10 || len(title) > 280 {
			return true
		}
		if !containsAnyKeyword(strings.ToLower(title), solarPortalTopicKeywords) {
			return true
		}
		if !seen.Add(href) {
			return true
		}

		capacityText := solarPortalCapacityRegexp.FindString(title)
		records = append(records, services.NewProjectRecord(title, meta.Name, absoluteURL(base, href),
			services.RowOptions{CapacityMW: capacityText, Status: "News"}))
		return len(records) < solarPortalMax
	})
	return records
}
