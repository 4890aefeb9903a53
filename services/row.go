package services

import (
	"strings"
	"time"

	"bess-tracker/models"
)

// RowOptions carries the optional fields of a canonical row.
type RowOptions struct {
	Country           string
	Region            string
	CapacityMW        string
	CapacityMWNumeric *float64
	Status            string
}

// NewProjectRecord builds a canonical ProjectRecord from raw per-source
// fields. The numeric capacity is derived from the capacity text when not
// supplied, the status always passes through NormalizeStatus, and a fresh
// scrape timestamp is stamped. Downstream components never need to check
// field presence again.
func NewProjectRecord(siteName, sourceName, url string, opts RowOptions) *models.ProjectRecord {
	capNumeric := opts.CapacityMWNumeric
	if capNumeric == nil && strings.TrimSpace(opts.CapacityMW) != "" {
		if v, ok := ParseCapacityMW(opts.CapacityMW); ok {
			capNumeric = &v
		}
	}

	status, opportunity := NormalizeStatus(opts.Status)

	country := strings.TrimSpace(opts.Country)
	if country == "" {
		country = "UK"
	}

	return &models.ProjectRecord{
		ScrapedAt:             time.Now().UTC(),
		Country:               country,
		Region:                strings.TrimSpace(opts.Region),
		SiteName:              strings.TrimSpace(siteName),
		CapacityMW:            strings.TrimSpace(opts.CapacityMW),
		CapacityMWNumeric:     capNumeric,
		Status:                status,
		InvestmentOpportunity: opportunity,
		Source:                sourceName,
		URL:                   strings.TrimSpace(url),
	}
}

// Float64 returns a pointer to v, for literal capacity values.
func Float64(v float64) *float64 {
	return &v
}
