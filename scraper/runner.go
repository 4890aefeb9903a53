package scraper

import (
	"bess-tracker/models"
	"bess-tracker/services"
	"bess-tracker/utils"
)

// Runner invokes every configured source adapter in order, isolates
// per-source failures, and merges the combined output. This is the only
// place that keeps one flaky upstream site from zeroing the whole dataset.
type Runner struct {
	sources []Source
	logger  *utils.Logger
}

// NewRunner creates a Runner over an ordered source list.
func NewRunner(sources []Source, logger *utils.Logger) *Runner {
	return &Runner{sources: sources, logger: logger}
}

// Run scrapes all sources sequentially and returns the deduplicated record
// set. Sources run strictly one at a time; hitting a dozen third-party sites
// in parallel buys little here and costs goodwill. A source that fails is
// logged at warning level and contributes zero records; the remaining
// sources are unaffected. Persistence is the caller's job.
func (r *Runner) Run() []*models.ProjectRecord {
	var all []*models.ProjectRecord

	for _, src := range r.sources {
		rows, err := src.Fetch(Options{SaveCSV: false, SaveJSON: false})
		if err != nil {
			r.logger.Warn("[runner] Source %s failed: %v", src.Name, err)
			continue
		}
		r.logger.Info("[runner] Source %s: %d rows", src.Name, len(rows))
		all = append(all, rows...)
	}

	merged := services.Deduplicate(all)
	r.logger.Info("[runner] Merged %d rows from %d sources into %d unique projects",
		len(all), len(r.sources), len(merged))
	return merged
}
