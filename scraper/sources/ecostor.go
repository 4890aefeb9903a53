package sources

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/services"
	"bess-tracker/utils"
)

var germanNumberRegexp = regexp.MustCompile(`[\d.]+`)

// EcoStor scrapes the ECO STOR Storage Monitor, a MaStR-backed table of
// German grid-scale batteries. The table is rendered client-side, so the
// page is loaded in a headless browser and the rows read out of the DOM.
type EcoStor struct {
	cfg    *config.Config
	fetch  *utils.Fetcher
	logger *utils.Logger
	retry  *utils.RetryConfig
}

func NewEcoStor(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) *EcoStor {
	return &EcoStor{
		cfg:    cfg,
		fetch:  fetch,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// ecoStorRow mirrors the monitor's column order: unit, technology, grid
// level, gross power, net power, storage capacity, operation status.
type ecoStorRow struct {
	Unit       string `json:"unit"`
	Technology string `json:"technology"`
	GrossPower string `json:"grossPower"`
	NetPower   string `json:"netPower"`
	Capacity   string `json:"capacity"`
	Status     string `json:"status"`
	Operator   string `json:"operator"`
}

func (s *EcoStor) Fetch(opts scraper.Options) ([]*models.ProjectRecord, error) {
	meta := s.cfg.Sources["eco_stor_monitor"]

	rows, err := s.loadTable(meta.URL)
	if err != nil {
		return nil, fmt.Errorf("eco stor monitor: %w", err)
	}

	records := s.build(rows, meta)
	if err := saveResults(s.cfg, records, meta.Country, "eco_stor_monitor", opts); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *EcoStor) loadTable(pageURL string) ([]ecoStorRow, error) {
	chromeBin := s.findChromeBinary()
	s.logger.Info("[eco-stor] Using browser binary: %s", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(utils.UserAgent),
	)
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	var rows []ecoStorRow
	err := s.retry.Do("eco-stor-table", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		rows = nil
		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(6*time.Second),

			chromedp.Evaluate(`
				(function() {
					var results = [];
					var table = document.querySelector('table');
					if (!table) return results;
					var body = table.querySelector('tbody') || table;
					var trs = body.querySelectorAll('tr');
					for (var i = 0; i < trs.length; i++) {
						var tds = trs[i].querySelectorAll('td');
						if (tds.length < 6) continue;
						var cell = function(n) {
							return tds.length > n ? tds[n].innerText.trim() : '';
						};
						results.push({
							unit:       cell(0),
							technology: cell(1),
							grossPower: cell(3),
							netPower:   cell(4),
							capacity:   cell(5),
							status:     cell(6),
							operator:   cell(9)
						});
					}
					return results;
				})()
			`, &rows),
		)
		if err != nil {
			return fmt.Errorf("chromedp table extract: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("table rendered empty")
		}
		return nil
	})
	return rows, err
}

func (s *EcoStor) build(rows []ecoStorRow, meta config.SourceMeta) []*models.ProjectRecord {
	var records []*models.ProjectRecord
	for _, row := range rows {
		if row.Unit == "" {
			continue
		}
		power := row.GrossPower
		if power == "" {
			power = row.NetPower
		}

		capacityText := ""
		var capacityNum *float64
		if v, ok := parseGermanNumber(power); ok {
			capacityNum = services.Float64(v)
			capacityText = fmt.Sprintf("%g MW", v)
		}

		name := row.Unit
		if op := strings.TrimSpace(row.Operator); op != "" {
			name = name + " (" + op + ")"
		}
		records = append(records, services.NewProjectRecord(name, meta.Name, meta.URL, services.RowOptions{
			Country:           meta.Country,
			CapacityMW:        capacityText,
			CapacityMWNumeric: capacityNum,
			Status:            row.Status,
		}))
	}
	return records
}

// parseGermanNumber reads a numeric cell that may use a decimal comma.
func parseGermanNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	m := germanNumberRegexp.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *EcoStor) findChromeBinary() string {
	if s.cfg.ChromeBin != "" {
		return s.cfg.ChromeBin
	}
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
