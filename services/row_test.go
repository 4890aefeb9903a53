package services

import (
	"testing"
	"time"
)

func TestNewProjectRecordDerivesCapacity(t *testing.T) {
	r := NewProjectRecord("Fareham Battery", "British Solar Renewables", "https://example.com/fareham",
		RowOptions{CapacityMW: "50MW", Status: "Operational"})

	if r.CapacityMWNumeric == nil || *r.CapacityMWNumeric != 50 {
		t.Fatalf("capacity: got %v, want 50", r.CapacityMWNumeric)
	}
	if r.CapacityMW != "50MW" {
		t.Errorf("capacity text: got %q", r.CapacityMW)
	}
	if r.Status != "Operational" || r.InvestmentOpportunity != OpportunityMAOfftake {
		t.Errorf("status/opportunity: got %q / %q", r.Status, r.InvestmentOpportunity)
	}
}

func TestNewProjectRecordExplicitNumericWins(t *testing.T) {
	// A structured CSV column is more authoritative than the display text.
	r := NewProjectRecord("Thorpe Marsh", "REPD", "https://example.com",
		RowOptions{CapacityMW: "c.1.4GW", CapacityMWNumeric: Float64(1400.5)})

	if r.CapacityMWNumeric == nil || *r.CapacityMWNumeric != 1400.5 {
		t.Errorf("capacity: got %v, want 1400.5", r.CapacityMWNumeric)
	}
}

func TestNewProjectRecordAbsentCapacity(t *testing.T) {
	r := NewProjectRecord("Some Site", "SSE", "https://example.com", RowOptions{})
	if r.CapacityMWNumeric != nil {
		t.Errorf("capacity must stay absent, got %v", *r.CapacityMWNumeric)
	}
	if r.CapacityMW != "" {
		t.Errorf("capacity text: got %q, want empty", r.CapacityMW)
	}
}

func TestNewProjectRecordDefaults(t *testing.T) {
	before := time.Now().UTC()
	r := NewProjectRecord("  Bicker Fen  ", "Fidra Energy", " https://example.com/p ", RowOptions{})
	after := time.Now().UTC()

	if r.SiteName != "Bicker Fen" {
		t.Errorf("site name not trimmed: %q", r.SiteName)
	}
	if r.URL != "https://example.com/p" {
		t.Errorf("url not trimmed: %q", r.URL)
	}
	if r.Country != "UK" {
		t.Errorf("country default: got %q", r.Country)
	}
	if r.ScrapedAt.Before(before) || r.ScrapedAt.After(after) {
		t.Errorf("scraped_at %v outside [%v, %v]", r.ScrapedAt, before, after)
	}
	if r.Status != "" || r.InvestmentOpportunity != "" {
		t.Errorf("empty status must stay empty: %q / %q", r.Status, r.InvestmentOpportunity)
	}
}
