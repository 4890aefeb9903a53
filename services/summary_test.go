package services

import (
	"testing"

	"bess-tracker/models"
)

func summaryFixture() []*models.ProjectRecord {
	return []*models.ProjectRecord{
		{SiteName: "A", Status: "Planned", InvestmentOpportunity: OpportunityEarlyStage, CapacityMWNumeric: Float64(50)},
		{SiteName: "B", Status: "Consented", InvestmentOpportunity: OpportunityEarlyStage, CapacityMWNumeric: Float64(100.04)},
		{SiteName: "C", Status: "In-construction", InvestmentOpportunity: OpportunityConstructionFinance, CapacityMWNumeric: Float64(25.5)},
		{SiteName: "D", Status: "Operational", InvestmentOpportunity: OpportunityMAOfftake},
		{SiteName: "E", Status: "News"},
		{SiteName: "F", Status: ""},
	}
}

func TestBuildSummaryCounts(t *testing.T) {
	s := BuildSummary(summaryFixture(), "2026-08-30", "2026-08-30T06:00:00Z")

	if s.TotalProjects != 6 {
		t.Errorf("TotalProjects: got %d, want 6", s.TotalProjects)
	}
	if s.CountPlanned != 1 || s.CountConsented != 1 || s.CountInConstruction != 1 || s.CountOperational != 1 {
		t.Errorf("status counts: %d/%d/%d/%d, want 1/1/1/1",
			s.CountPlanned, s.CountConsented, s.CountInConstruction, s.CountOperational)
	}
	if s.CountEarlyStageDevelopment != 2 || s.CountConstructionFinance != 1 || s.CountMAOfftake != 1 {
		t.Errorf("opportunity counts: %d/%d/%d, want 2/1/1",
			s.CountEarlyStageDevelopment, s.CountConstructionFinance, s.CountMAOfftake)
	}
	if s.RunDate != "2026-08-30" || s.RunAt != "2026-08-30T06:00:00Z" {
		t.Errorf("run stamps: %q / %q", s.RunDate, s.RunAt)
	}
}

func TestBuildSummaryTotalMWRounded(t *testing.T) {
	s := BuildSummary(summaryFixture(), "", "")
	// 50 + 100.04 + 25.5 = 175.54 -> 175.5
	if s.TotalMW != 175.5 {
		t.Errorf("TotalMW: got %.2f, want 175.5", s.TotalMW)
	}
}

func TestBuildSummaryUnrecognizedStatusUncounted(t *testing.T) {
	s := BuildSummary(summaryFixture(), "", "")
	statusSum := s.CountPlanned + s.CountConsented + s.CountInConstruction + s.CountOperational
	if statusSum > s.TotalProjects {
		t.Errorf("status counts %d exceed total %d", statusSum, s.TotalProjects)
	}
	// "News" and empty statuses stay uncounted.
	if statusSum != 4 {
		t.Errorf("status counts: got %d, want 4", statusSum)
	}
}

func TestBuildSummaryDefaultsRunStamps(t *testing.T) {
	s := BuildSummary(nil, "", "")
	if s.RunDate == "" || s.RunAt == "" {
		t.Errorf("run stamps must default: %q / %q", s.RunDate, s.RunAt)
	}
	if s.TotalProjects != 0 || s.TotalMW != 0 {
		t.Errorf("empty set: %d projects / %.1f MW", s.TotalProjects, s.TotalMW)
	}
}

func TestBuildSummaryStatusMatchingCaseInsensitive(t *testing.T) {
	records := []*models.ProjectRecord{
		{Status: "planned"},
		{Status: "IN CONSTRUCTION"},
		{Status: " operational "},
	}
	s := BuildSummary(records, "", "")
	if s.CountPlanned != 1 || s.CountInConstruction != 1 || s.CountOperational != 1 {
		t.Errorf("hyphen-normalized matching failed: %+v", s)
	}
}
