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

var sseCapacityRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*MW`)

// SSE scrapes the SSE Renewables site list for battery storage entries.
// Capacity and status live in the surrounding markup rather than the link
// itself, so the extractor walks up the ancestor chain looking for both.
type SSE struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewSSE(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *SSE {
	return &SSE{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *SSE) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["sse_renewables"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("sse renewables: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("sse renewables: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "sse_renewables", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SSE) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	base := siteBase(meta.URL)
	var records []*models.ProjectRecord
	seen := utils.NewURLSet()

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		name := strings.TrimSpace(a.Text())
		lower := strings.ToLower(name)
		if !strings.Contains(name, "BESS") && !strings.Contains(lower, "battery") && !strings.Contains(lower, "storage") {
			return
		}
		if name == "" || len(name) > 200 {
			return
		}
		if !seen.Add(strings.ToLower(truncateRunes(name, 80)) + "|" + href) {
			return
		}

		capacityText, ancestorText := sseAncestorCapacity(a)
		status := "Planned"
		switch at := strings.ToLower(ancestorText); {
		case strings.Contains(at, "operational") || strings.Contains(at, "energised"):
			status = "Operational"
		case strings.Contains(at, "construction"):
			status = "In-construction"
		case strings.Contains(at, "consent"):
			status = "Consented"
		}

		records = append(records, services.NewProjectRecord(name, meta.Name, absoluteURL(base, href),
			services.RowOptions{CapacityMW: capacityText, Status: status}))
	})

	// Fallback: site links with a capacity figure somewhere nearby.
	if len(records) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href := a.AttrOr("href", "")
			if !strings.Contains(href, "/our-sites/") && !strings.Contains(href, "/sites/") {
				return
			}
			name := strings.TrimSpace(a.Text())
			if name == "" || len(name) > 200 {
				return
			}
			if !seen.Add(strings.ToLower(truncateRunes(name, 80)) + "|" + href) {
				return
			}
			capacityText, _ := sseAncestorCapacity(a)
			records = append(records, services.NewProjectRecord(name, meta.Name, absoluteURL(base, href),
				services.RowOptions{CapacityMW: capacityText, Status: "Planned"}))
		})
	}
	return records
}

// sseAncestorCapacity walks up to six ancestors looking for an "N MW" figure
// and returns both the figure and the text of the ancestor that held it.
func sseAncestorCapacity(a *goquery.Selection) (string, string) {
	parent := a.Parent()
	for i := 0; i < 6 && parent.Length() > 0; i++ {
		text := parent.Text()
		if m := sseCapacityRegexp.FindStringSubmatch(text); m != nil {
			return m[1] + " MW", text
		}
		parent = parent.Parent()
	}
	return "", ""
}
