// Package scraper defines the source adapter contract and the run
// orchestrator that drives every configured source through one scrape.
package scraper

import "bess-tracker/models"

// Options are passed to every adapter invocation. The runner always disables
// per-source persistence and date suffixing; those belong to the run as a
// whole, not to individual adapters.
type Options struct {
	SaveCSV    bool
	SaveJSON   bool
	DateSuffix string
}

// FetchFunc scrapes one source. A nil-error return with zero records means
// the source legitimately listed nothing; an error means the fetch or the
// extraction failed. Adapters never panic their way out of a run.
type FetchFunc func(opts Options) ([]*models.ProjectRecord, error)

// Source pairs a human-readable source name with its adapter.
type Source struct {
	Name  string
	Fetch FetchFunc
}
