package sources

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

const repdAssetsBase = "https://assets.publishing.service.gov.uk"

// REPD scrapes the DESNZ Renewable Energy Planning Database: the gov.uk
// publication page links the latest quarterly CSV extract, which is filtered
// for electricity storage projects.
type REPD struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewREPD(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *REPD {
	return &REPD{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *REPD) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["uk_repd"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("repd: publication page: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("repd: %w", err)
	}

	csvURL := s.findLatestCSVURL(doc)
	if csvURL == "" {
		return nil, fmt.Errorf("repd: no CSV link on publication page")
	}
	s.logger.Debug("[repd] Latest extract: %s", csvURL)

	// gov.uk extracts are frequently Latin-encoded; GetText handles the decode.
	text, err := s.fetch.GetText(csvURL)
	if err != nil {
		return nil, fmt.Errorf("repd: download csv: %w", err)
	}
	rows, err := parseCSVTable(text)
	if err != nil {
		return nil, fmt.Errorf("repd: %w", err)
	}

	records := s.extract(rows, meta)
	if err := saveResults(s.cfg, records, meta.Country, "uk_repd", opts); err != nil {
		return nil, err
	}
	return records, nil
}

// findLatestCSVURL picks the first CSV asset that looks like a REPD extract.
func (s *REPD) findLatestCSVURL(doc *goquery.Document) string {
	var found, fallback string

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !strings.HasSuffix(href, ".csv") {
			return true
		}
		full := href
		if !strings.HasPrefix(href, "http") {
			if strings.HasPrefix(href, "/") {
				full = absoluteURL("https://www.gov.uk", href)
			} else {
				full = absoluteURL(repdAssetsBase, href)
			}
		}
		lower := strings.ToLower(href)
		if strings.Contains(strings.ToUpper(href), "REPD") ||
			strings.Contains(lower, "renewable") || strings.Contains(lower, "planning") {
			found = full
			return false
		}
		if fallback == "" && (strings.Contains(lower, "gov") || strings.Contains(lower, "publishing")) {
			fallback = full
		}
		return true
	})

	if found != "" {
		return found
	}
	return fallback
}

func (s *REPD) extract(rows []map[string]string, meta config.SourceMeta) []*models.ProjectRecord {
	if len(rows) == 0 {
		return nil
	}

	sample := rows[0]
	techCol := findColumn(sample, "technology", "type")
	if techCol == "" {
		return nil
	}
	siteCol := firstColumn(sample,
		[]string{"site", "name"}, []string{"project", "name"}, []string{"name"}, []string{"ref"})
	capCol := firstColumn(sample,
		[]string{"installed", "capacity"}, []string{"capacity", "mwelec"}, []string{"capacity"})
	statusCol := firstColumn(sample,
		[]string{"development", "status", "short"}, []string{"development", "status"}, []string{"status"})
	regionCol := firstColumn(sample, []string{"region"}, []string{"county"})
	countryCol := findColumn(sample, "country")

	var records []*models.ProjectRecord
	for _, row := range rows {
		if !strings.Contains(strings.ToLower(row[techCol]), "storage") {
			continue
		}
		siteName := row[siteCol]
		if siteName == "" {
			continue
		}

		var capNumeric *float64
		capacityText := ""
		if v, err := strconv.ParseFloat(strings.ReplaceAll(row[capCol], ",", ""), 64); err == nil {
			capNumeric = &v
			capacityText = row[capCol] + " MW"
		}

		status, _ := services.NormalizeStatus(row[statusCol])
		r := services.NewProjectRecord(siteName, meta.Name, meta.URL, services.RowOptions{
			Country:           row[countryCol],
			Region:            row[regionCol],
			CapacityMW:        capacityText,
			CapacityMWNumeric: capNumeric,
			Status:            status,
		})
		records = append(records, r)
	}
	return records
}
