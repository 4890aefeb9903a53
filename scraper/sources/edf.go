package sources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

// Pipeline statuses kept when LatestOnly is set (excludes Operational).
var edfLatestStatuses = map[string]struct{}{
	"planned":         {},
	"consented":       {},
	"in-construction": {},
}

// EDF scrapes the EDF Renewables UK & Ireland battery storage site list.
// Primary layout is a table (site / status / country / capacity columns);
// when the table is absent it falls back to per-site links.
type EDF struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger

	// LatestOnly keeps only Planned / Consented / In-construction rows
	// for a pipeline-focused extract.
	LatestOnly bool
}

func NewEDF(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *EDF {
	return &EDF{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *EDF) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["edf_re_uk"]

	html, err := s.fetch.GetText(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("edf: %w", err)
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, fmt.Errorf("edf: %w", err)
	}

	records := s.extract(doc, meta)
	if err := saveResults(s.cfg, records, meta.Country, "edf_re_uk", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *EDF) extract(doc *goquery.Document, meta config.SourceMeta) []*models.ProjectRecord {
	baseURL := siteBase(meta.URL)
	var records []*models.ProjectRecord

	table := doc.Find("table").First()
	if table.Length() > 0 {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() < 2 {
				return
			}

			siteCell := cells.Eq(0)
			link := siteCell.Find("a").First()
			siteName := strings.TrimSpace(link.Text())
			if siteName == "" {
				siteName = strings.TrimSpace(siteCell.Text())
			}
			projectURL := meta.URL
			if href := link.AttrOr("href", ""); href != "" {
				projectURL = absoluteURL(baseURL, href)
			}

			status := strings.TrimSpace(cells.Eq(1).Text())
			region := meta.Country
			capacity := ""
			if cells.Length() >= 4 {
				if v := strings.TrimSpace(cells.Eq(3).Text()); v != "" {
					region = v
				}
			}
			if cells.Length() >= 5 {
				capacity = strings.TrimSpace(cells.Eq(4).Text())
			}

			if s.LatestOnly {
				key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "-")
				if _, ok := edfLatestStatuses[key]; !ok {
					return
				}
			}

			records = append(records, services.NewProjectRecord(siteName, meta.Name, projectURL,
				services.RowOptions{
					Region:     region,
					CapacityMW: capacity,
					Status:     status,
				}))
		})
		return records
	}

	// No table: collect site links instead. Status and capacity are unknown
	// at list level, so the pipeline filter yields nothing here.
	if s.LatestOnly {
		return nil
	}
	doc.Find(`a[href*="/our-sites/"]`).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if strings.Count(href, "/") < 4 {
			return
		}
		siteName := strings.TrimSpace(a.Text())
		if siteName == "" || len(siteName) > 200 {
			return
		}
		records = append(records, services.NewProjectRecord(siteName, meta.Name,
			absoluteURL(baseURL, href), services.RowOptions{}))
	})
	return records
}

// siteBase reduces a URL to scheme://host.
func siteBase(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
