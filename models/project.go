package models

import "time"

// ProjectRecord is the canonical row every source adapter produces.
// The same physical project reported by several sources collapses to a
// single record during deduplication, with Source holding a
// semicolon-joined list of origins.
type ProjectRecord struct {
	ScrapedAt             time.Time `json:"scraped_at"`
	Country               string    `json:"country"`
	Region                string    `json:"region"`
	SiteName              string    `json:"site_name"`
	CapacityMW            string    `json:"capacity_mw"`
	CapacityMWNumeric     *float64  `json:"capacity_mw_numeric"`
	Status                string    `json:"status"`
	InvestmentOpportunity string    `json:"investment_opportunity"`
	Source                string    `json:"source"`
	URL                   string    `json:"url"`
}

// Summary holds the per-run statistics appended to the week-over-week
// history file. Column order in persisted output follows field order here.
type Summary struct {
	RunDate                    string  `json:"run_date"`
	RunAt                      string  `json:"run_at"`
	TotalProjects              int     `json:"total_projects"`
	TotalMW                    float64 `json:"total_mw"`
	CountPlanned               int     `json:"count_planned"`
	CountConsented             int     `json:"count_consented"`
	CountInConstruction        int     `json:"count_in_construction"`
	CountOperational           int     `json:"count_operational"`
	CountEarlyStageDevelopment int     `json:"count_early_stage_development"`
	CountConstructionFinance   int     `json:"count_construction_finance"`
	CountMAOfftake             int     `json:"count_ma_offtake"`
}

// RunReport holds the computed analytics printed at the end of a run.
type RunReport struct {
	Summary          *Summary
	LargestProjects  []*ProjectRecord
	ProjectsByRegion map[string]int
	SourceCount      int
}
