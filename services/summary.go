package services

import (
	"strings"
	"time"

	"bess-tracker/models"
)

// BuildSummary computes the per-run statistics over a record set: counts per
// canonical stage, counts per opportunity label and the total numeric
// capacity. Empty runDate/runAt default to the current UTC date and instant;
// they are independent so two runs on one calendar date stay distinguishable.
func BuildSummary(records []*models.ProjectRecord, runDate, runAt string) *models.Summary {
	s := &models.Summary{TotalProjects: len(records)}

	var totalMW float64
	for _, r := range records {
		status := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(r.Status)), " ", "-")
		switch status {
		case "planned":
			s.CountPlanned++
		case "consented":
			s.CountConsented++
		case "in-construction":
			s.CountInConstruction++
		case "operational":
			s.CountOperational++
		}

		opp := strings.TrimSpace(r.InvestmentOpportunity)
		switch {
		case strings.Contains(opp, "Early-stage"):
			s.CountEarlyStageDevelopment++
		case strings.Contains(opp, "Construction"), strings.Contains(opp, "finance"):
			s.CountConstructionFinance++
		case strings.Contains(opp, "M&A"), strings.Contains(opp, "offtake"):
			s.CountMAOfftake++
		}

		if r.CapacityMWNumeric != nil {
			totalMW += *r.CapacityMWNumeric
		}
	}
	s.TotalMW = round1(totalMW)

	now := time.Now().UTC()
	s.RunDate = runDate
	if s.RunDate == "" {
		s.RunDate = now.Format("2006-01-02")
	}
	s.RunAt = runAt
	if s.RunAt == "" {
		s.RunAt = now.Format(time.RFC3339)
	}
	return s
}
