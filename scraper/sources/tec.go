package sources

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

const (
	tecAPIBase   = "https://api.nationalgrideso.com"
	tecPackageID = "cbd45e54-e6e2-4a38-99f1-8de6fd96d7c1"
	// Known CSV resource; the dated filename behind it changes between
	// publications but the download URL stays stable.
	tecResourceID = "17becbab-e3e8-473f-b303-3806f43a6a10"
)

// TEC scrapes the NESO Transmission Entry Capacity register: every project
// holding a transmission connection agreement. The latest CSV resource is
// located through the CKAN API, with the portal page and a pinned resource
// URL as fallbacks.
type TEC struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewTEC(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *TEC {
	return &TEC{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *TEC) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["tec_register"]

	csvURL := s.findCSVURL(meta)
	if csvURL == "" {
		return nil, fmt.Errorf("tec register: no csv resource found")
	}

	text, err := s.fetch.GetText(csvURL)
	if err != nil {
		return nil, fmt.Errorf("tec register: download csv: %w", err)
	}
	rows, err := parseCSVTable(text)
	if err != nil {
		return nil, fmt.Errorf("tec register: %w", err)
	}

	records := s.extract(rows, meta)
	if err := saveResults(s.cfg, records, meta.Country, "tec_register", opts); err != nil {
		return nil, err
	}
	return records, nil
}

type ckanResource struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Format  string `json:"format"`
	Created string `json:"created"`
}

type ckanPackageShow struct {
	Success bool `json:"success"`
	Result  struct {
		Resources []ckanResource `json:"resources"`
	} `json:"result"`
}

func (s *TEC) findCSVURL(meta config.SourceMeta) string {
	// CKAN package_show lists the dataset's resources.
	apiURL := fmt.Sprintf("%s/api/3/action/package_show?id=%s", tecAPIBase, tecPackageID)
	if raw, err := s.fetch.Get(apiURL); err == nil {
		var pkg ckanPackageShow
		if err := json.Unmarshal(raw, &pkg); err == nil && pkg.Success {
			var csvs []ckanResource
			for _, res := range pkg.Result.Resources {
				if strings.EqualFold(res.Format, "CSV") {
					csvs = append(csvs, res)
				}
			}
			sort.Slice(csvs, func(i, j int) bool { return csvs[i].Created > csvs[j].Created })
			for _, res := range csvs {
				if res.URL != "" {
					return res.URL
				}
				if res.ID != "" {
					return fmt.Sprintf("%s/dataset/%s/resource/%s/download/tec-register.csv", tecAPIBase, tecPackageID, res.ID)
				}
			}
		}
	}

	// Fallback: scan the portal page for a CSV download link.
	if html, err := s.fetch.GetText(meta.URL); err == nil {
		if doc, err := parseDocument(html); err == nil {
			var found string
			doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				href := strings.TrimSpace(a.AttrOr("href", ""))
				lower := strings.ToLower(href)
				if strings.Contains(lower, "tec") && (strings.HasSuffix(lower, ".csv") || strings.Contains(lower, "download")) {
					found = absoluteURL(meta.URL, href)
					return false
				}
				return true
			})
			if found != "" {
				return found
			}
		}
	}

	// Last resort: the pinned resource download.
	return fmt.Sprintf("%s/dataset/%s/resource/%s/download/tec-register.csv", tecAPIBase, tecPackageID, tecResourceID)
}

func (s *TEC) extract(rows []map[string]string, meta config.SourceMeta) []*models.ProjectRecord {
	if len(rows) == 0 {
		return nil
	}

	sample := rows[0]
	nameCol := firstColumn(sample, []string{"project", "name"}, []string{"name"}, []string{"project"})
	capCol := firstColumn(sample, []string{"capacity"}, []string{"tec"}, []string{"mw"})
	regionCol := firstColumn(sample, []string{"region"}, []string{"zone"}, []string{"area"})

	var records []*models.ProjectRecord
	for _, row := range rows {
		name := strings.TrimSpace(row[nameCol])
		if nameCol == "" || name == "" {
			continue
		}

		var capacityNum *float64
		capacityText := ""
		if capCol != "" {
			raw := strings.TrimSpace(row[capCol])
			if raw != "" {
				if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
					capacityNum = services.Float64(v)
				} else if v, ok := services.ParseCapacityMW(raw); ok {
					capacityNum = services.Float64(v)
				}
				if capacityNum != nil {
					capacityText = raw + " MW"
				}
			}
		}

		region := ""
		if regionCol != "" {
			region = strings.TrimSpace(row[regionCol])
		}

		// A TEC agreement means a grid connection is secured; map it to the
		// consented stage for opportunity purposes.
		records = append(records, services.NewProjectRecord(name, meta.Name, meta.URL, services.RowOptions{
			Region:            region,
			CapacityMW:        capacityText,
			CapacityMWNumeric: capacityNum,
			Status:            "Consented",
		}))
	}
	return records
}
