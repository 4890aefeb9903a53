package sources

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

// PINS scrapes the Planning Inspectorate register of Nationally Significant
// Infrastructure Projects. The applications-download endpoint answers with
// JSON or CSV depending on deployment; the project-search page is the HTML
// fallback when the endpoint is withdrawn.
type PINS struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewPINS(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *PINS {
	return &PINS{cfg: cfg, fetch: fetch, logger: logger}
}

// pinsProject is one raw register entry before canonicalization.
type pinsProject struct {
	Name  string
	Stage string
	URL   string
}

func (s *PINS) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["pins_nsip"]
	base := siteBase(meta.URL)

	projects := s.fetchDownload(base)
	if len(projects) == 0 {
		var err error
		projects, err = s.fetchSearchPage(meta, base)
		if err != nil {
			return nil, fmt.Errorf("pins nsip: %w", err)
		}
	}

	records := s.build(projects, meta)
	if err := saveResults(s.cfg, records, meta.Country, "pins_nsip", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PINS) fetchDownload(base string) []pinsProject {
	raw, err := s.fetch.Get(base + "/api/applications-download")
	if err != nil {
		s.logger.Debug("pins applications-download unavailable: %v", err)
		return nil
	}
	text := strings.TrimSpace(utils.DecodeText(raw))
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		return parsePINSJSON(text)
	}
	return parsePINSCSV(text)
}

func parsePINSJSON(text string) []pinsProject {
	var items []map[string]any

	var direct []map[string]any
	if err := json.Unmarshal([]byte(text), &direct); err == nil {
		items = direct
	} else {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
			return nil
		}
		for _, key := range []string{"applications", "data"} {
			if raw, ok := wrapped[key]; ok {
				if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
					break
				}
			}
		}
	}

	var projects []pinsProject
	for _, item := range items {
		p := pinsProject{
			Name:  firstStringField(item, "Project Name", "project_name", "projectName", "Name"),
			Stage: firstStringField(item, "Stage", "stage", "Development Status", "status"),
			URL:   firstStringField(item, "url", "Link", "link"),
		}
		if p.Name != "" {
			projects = append(projects, p)
		}
	}
	return projects
}

func firstStringField(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
				return strings.TrimSpace(str)
			}
		}
	}
	return ""
}

func parsePINSCSV(text string) []pinsProject {
	rows, err := parseCSVTable(text)
	if err != nil {
		return nil
	}
	var projects []pinsProject
	for _, row := range rows {
		nameCol := firstColumn(row, []string{"project", "name"}, []string{"name"})
		stageCol := firstColumn(row, []string{"stage"}, []string{"status"})
		urlCol := firstColumn(row, []string{"url"}, []string{"link"})
		p := pinsProject{Name: row[nameCol], Stage: row[stageCol], URL: row[urlCol]}
		if p.Name != "" {
			projects = append(projects, p)
		}
	}
	return projects
}

func (s *PINS) fetchSearchPage(meta config.SourceMeta, base string) ([]pinsProject, error) {
	html, err := s.fetch.GetText(meta.URL + "?sector=energy&itemsPerPage=100")
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	var projects []pinsProject
	doc.Find("[data-project], .project-card, table tbody tr, article").Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find("h2, h3, .project-name, [data-project-name], td:first-child, a").First().Text())
		if len(name) < 3 {
			return
		}
		href := card.Find(`a[href*="project"]`).First().AttrOr("href", "")
		url := meta.URL
		if href != "" {
			url = absoluteURL(base, href)
		}
		stage := strings.TrimSpace(card.Find(".stage, [data-stage], td:nth-child(2)").First().Text())
		projects = append(projects, pinsProject{Name: name, Stage: stage, URL: url})
	})
	return projects, nil
}

func (s *PINS) build(projects []pinsProject, meta config.SourceMeta) []*models.ProjectRecord {
	var records []*models.ProjectRecord
	for _, p := range projects {
		status, _ := services.NormalizeStatus(p.Stage)
		if status == "" && p.Stage != "" {
			status = truncateRunes(p.Stage, 50)
		}

		// NSIP names often carry the scheme size ("X Solar Farm (350MW)").
		capacityText := ""
		var capacityNum *float64
		if v, ok := services.ParseCapacityMW(p.Name); ok {
			capacityNum = services.Float64(v)
			capacityText = fmt.Sprintf("%g MW", v)
		}

		url := p.URL
		if url == "" {
			url = meta.URL
		}
		records = append(records, services.NewProjectRecord(p.Name, meta.Name, url, services.RowOptions{
			CapacityMW:        capacityText,
			CapacityMWNumeric: capacityNum,
			Status:            status,
		}))
	}
	return records
}
