package sources

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

const (
	ecrDatasetBase = "https://ukpowernetworks.opendatasoft.com/api/explore/v2.1/catalog/datasets/ukpn-embedded-capacity-register"
	ecrPageSize    = 100
	ecrMaxOffset   = 10000
)

// ECR scrapes the UK Power Networks Embedded Capacity Register of
// distribution-connected generation. The OpenDataSoft CSV export is the
// primary path; the paginated records API is the fallback.
type ECR struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
}

func NewECR(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *ECR {
	return &ECR{cfg: cfg, fetch: fetch, logger: logger}
}

func (s *ECR) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["ecr_ukpn"]

	rows, err := s.fetchRows()
	if err != nil {
		return nil, fmt.Errorf("ecr ukpn: %w", err)
	}

	records := s.extract(rows, meta)
	if err := saveResults(s.cfg, records, meta.Country, "ecr_ukpn", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ECR) fetchRows() ([]map[string]string, error) {
	text, err := s.fetch.GetText(ecrDatasetBase + "/exports/csv?limit=-1")
	if err == nil {
		rows, perr := parseCSVTable(text)
		if perr == nil && len(rows) > 0 {
			return rows, nil
		}
	} else {
		s.logger.Debug("ecr csv export unavailable, falling back to records api: %v", err)
	}
	return s.fetchRowsAPI()
}

type odsRecordsPage struct {
	Results []json.RawMessage `json:"results"`
}

// fetchRowsAPI pages through the OpenDataSoft records endpoint. Each result
// is either the fields map itself or wrapped under record.fields.
func (s *ECR) fetchRowsAPI() ([]map[string]string, error) {
	var rows []map[string]string
	for offset := 0; offset <= ecrMaxOffset; offset += ecrPageSize {
		url := fmt.Sprintf("%s/records?limit=%d&offset=%d", ecrDatasetBase, ecrPageSize, offset)
		raw, err := s.fetch.Get(url)
		if err != nil {
			if len(rows) > 0 {
				break
			}
			return nil, err
		}
		var page odsRecordsPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode records page: %w", err)
		}
		if len(page.Results) == 0 {
			break
		}
		for _, res := range page.Results {
			if fields := odsFields(res); fields != nil {
				rows = append(rows, fields)
			}
		}
		if len(page.Results) < ecrPageSize {
			break
		}
	}
	return rows, nil
}

func odsFields(raw json.RawMessage) map[string]string {
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	if wrapped, ok := rec["record"].(map[string]any); ok {
		if fields, ok := wrapped["fields"].(map[string]any); ok {
			rec = fields
		}
	}
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		switch val := v.(type) {
		case string:
			out[k] = strings.TrimSpace(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	return out
}

func (s *ECR) extract(rows []map[string]string, meta config.SourceMeta) []*models.ProjectRecord {
	if len(rows) == 0 {
		return nil
	}

	sample := rows[0]
	nameCol := firstColumn(sample, []string{"site"}, []string{"name"}, []string{"project"}, []string{"customer"})
	capCol := firstColumn(sample, []string{"capacity"}, []string{"mw"}, []string{"export"})
	regionCol := firstColumn(sample, []string{"region"}, []string{"primary"}, []string{"substation"})

	var records []*models.ProjectRecord
	seen := utils.NewURLSet()
	for _, row := range rows {
		name := strings.TrimSpace(row[nameCol])
		if nameCol == "" || name == "" {
			continue
		}
		capRaw := ""
		if capCol != "" {
			capRaw = strings.TrimSpace(row[capCol])
		}
		if !seen.Add(strings.ToLower(name) + "|" + capRaw) {
			continue
		}

		var capacityNum *float64
		capacityText := ""
		if capRaw != "" {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(capRaw, ",", ""), 64); err == nil {
				capacityNum = services.Float64(v)
			} else if v, ok := services.ParseCapacityMW(capRaw); ok {
				capacityNum = services.Float64(v)
			}
			if capacityNum != nil {
				capacityText = capRaw + " MW"
			}
		}

		region := ""
		if regionCol != "" {
			region = strings.TrimSpace(row[regionCol])
		}

		// An ECR entry holds a distribution connection agreement; treat it
		// as consented for the opportunity mapping.
		records = append(records, services.NewProjectRecord(name, meta.Name, meta.URL, services.RowOptions{
			Region:            region,
			CapacityMW:        capacityText,
			CapacityMWNumeric: capacityNum,
			Status:            "Consented",
		}))
	}
	return records
}
