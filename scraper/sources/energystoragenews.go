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

const energyStorageNewsMax = 30

var (
	headlineCapacityRegexp = regexp.MustCompile(`(?i)[\d.]+\s*MW|[\d.]+\s*GWh|[\d.]+\s*MWh`)

	ukHeadlineKeywords = []string{"uk", "britain", "british", "england", "scotland", "wales", "ireland"}

	// Non-article paths on energy-storage.news.
	newsSkipPaths = []string{"/category/", "/newsletter/", "/premium/", "/tag/", "/author/"}
)

// EnergyStorageNews scrapes the Energy-Storage.news headline feed for deal and
// project intelligence. Rows carry status "News" so deduplication treats them
// as enrichment rather than ground truth.
type EnergyStorageNews struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger

	// UKOnly keeps only headlines with a UK keyword.
	UKOnly bool
}

func NewEnergyStorageNews(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *EnergyStorageNews {
	return &EnergyStorageNews{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *EnergyStorageNews) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["energy_storage_news"]
	base := siteBase(meta.URL)

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		s.logger.Debug("energy-storage.news category page failed, trying homepage: %v", err)
		html, err = s.fetch.GetText(base)
		if err != nil {
			return nil, fmt.Errorf("energy-storage.news: %w", err)
		}
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("energy-storage.news: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "energy_storage_news", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *EnergyStorageNews) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	base := siteBase(meta.URL)
	var records []*models.ProjectRecord
	seen := utils.NewURLSet()

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || !strings.Contains(href, "energy-storage.news") {
			return true
		}
		for _, p := range newsSkipPaths {
			if strings.Contains(href, p) {
				return true
			}
		}
		if strings.Count(href, "/") < 4 {
			return true
		}
		title := strings.TrimSpace(a.Text())
		if len(title) < 12 || len(title) > 300 {
			return true
		}
		if !seen.Add(href) {
			return true
		}
		if s.UKOnly && !containsAnyKeyword(strings.ToLower(title), ukHeadlineKeywords) {
			return true
		}

		capacityText := headlineCapacityRegexp.FindString(title)
		records = append(records, services.NewProjectRecord(title, meta.Name, absoluteURL(base, href),
			services.RowOptions{CapacityMW: capacityText, Status: "News"}))
		return len(records) < energyStorageNewsMax
	})
	return records
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
