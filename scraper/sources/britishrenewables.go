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

var capacityTokenRegexp = regexp.MustCompile(`(?i)([\d.]+)\s*MW`)

// BritishRenewables scrapes the British Solar Renewables battery projects
// page: h2/h3 headings like "Fareham Battery, Hampshire" with the capacity
// somewhere in the following siblings. Listed projects are operational.
type BritishRenewables struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewBritishRenewables(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *BritishRenewables {
	return &BritishRenewables{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *BritishRenewables) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["british_renewables"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("british renewables: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("british renewables: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "british_renewables", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BritishRenewables) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	var records []*models.ProjectRecord
	seen := make(map[string]struct{})

	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		text := strings.TrimSpace(heading.Text())
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "battery") && !strings.Contains(lower, "bess") {
			return
		}

		name := strings.TrimSpace(strings.NewReplacer(
			"Our Battery Projects", "",
			"Battery Projects", "",
		).Replace(text))
		if len(name) < 3 {
			return
		}

		region := ""
		if i := strings.Index(name, ","); i >= 0 {
			region = strings.TrimSpace(name[i+1:])
			name = strings.TrimSpace(name[:i])
		}

		capacityText := capacityFromSiblings(heading)
		key := strings.ToLower(name) + "|" + capacityText
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		records = append(records, services.NewProjectRecord(name, meta.Name, meta.URL,
			services.RowOptions{
				Region:     region,
				CapacityMW: capacityText,
				Status:     "Operational",
			}))
	})
	return records
}

// capacityFromSiblings searches the elements following a project heading,
// stopping at the next heading, for the first "NN MW" token.
func capacityFromSiblings(heading *goquery.Selection) string {
	capacity := ""
	heading.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if goquery.NodeName(sib) == "h2" || goquery.NodeName(sib) == "h3" {
			return false
		}
		if m := capacityTokenRegexp.FindString(sib.Text()); m != "" {
			capacity = m
			return false
		}
		return true
	})
	return capacity
}
