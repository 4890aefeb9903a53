package services

import (
	"strings"
	"testing"

	"bess-tracker/models"
)

func record(site, region, source, status string, capacity *float64) *models.ProjectRecord {
	return &models.ProjectRecord{
		Country:           "UK",
		Region:            region,
		SiteName:          site,
		CapacityMWNumeric: capacity,
		Status:            status,
		Source:            source,
		URL:               "https://example.com/" + strings.ToLower(strings.ReplaceAll(site, " ", "-")),
	}
}

func TestDeduplicateCollapsesSameProject(t *testing.T) {
	in := []*models.ProjectRecord{
		record("Fareham Battery", "Hampshire", "REPD", "Consented", Float64(50)),
		record("fareham   battery", "hampshire", "EDF", "Consented", Float64(50.04)),
	}

	out := Deduplicate(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(out))
	}
	if out[0].Source != "REPD; EDF" {
		t.Errorf("source: got %q, want %q", out[0].Source, "REPD; EDF")
	}
}

func TestDeduplicateKeepsDistinctProjects(t *testing.T) {
	in := []*models.ProjectRecord{
		record("Fareham Battery", "Hampshire", "REPD", "Consented", Float64(50)),
		record("Fareham Battery", "Hampshire", "REPD", "Consented", Float64(99)),
		record("Thorpe Marsh", "Yorkshire", "Fidra", "Planned", Float64(1400)),
	}

	out := Deduplicate(in)
	if len(out) != 3 {
		t.Errorf("distinct capacities/sites must not merge: got %d records", len(out))
	}
}

func TestDeduplicateNonNewsBeatsNews(t *testing.T) {
	news := record("Fareham Battery", "", "Energy-Storage.news", "News", Float64(50))
	news.CapacityMW = ""
	official := record("Fareham Battery", "", "British Solar Renewables", "Operational", Float64(50))
	official.CapacityMW = "50MW"
	official.InvestmentOpportunity = OpportunityMAOfftake

	out := Deduplicate([]*models.ProjectRecord{news, official})
	if len(out) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(out))
	}
	got := out[0]
	if got.Status != "Operational" {
		t.Errorf("status: got %q, want Operational", got.Status)
	}
	if got.CapacityMW != "50MW" {
		t.Errorf("promoted fields not copied: capacity text %q", got.CapacityMW)
	}
	if !strings.Contains(got.Source, "British Solar Renewables") || !strings.Contains(got.Source, "Energy-Storage.news") {
		t.Errorf("source must list both origins, got %q", got.Source)
	}
	if !strings.HasPrefix(got.Source, "British Solar Renewables") {
		t.Errorf("promoting source should come first, got %q", got.Source)
	}
}

func TestDeduplicateNewsDoesNotDemoteCanonical(t *testing.T) {
	official := record("Fareham Battery", "", "REPD", "Operational", Float64(50))
	news := record("Fareham Battery", "", "Energy-Storage.news", "News", Float64(50))

	out := Deduplicate([]*models.ProjectRecord{official, news})
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Status != "Operational" {
		t.Errorf("canonical status must survive a News duplicate, got %q", out[0].Status)
	}
	if out[0].Source != "REPD; Energy-Storage.news" {
		t.Errorf("source: got %q", out[0].Source)
	}
}

func TestDeduplicateGenericSiteNamesStayDistinct(t *testing.T) {
	a := record("View Project", "", "Root Power", "Planned", nil)
	a.URL = "https://root-power.com/projects/alpha"
	b := record("View Project", "", "Root Power", "Planned", nil)
	b.URL = "https://root-power.com/projects/beta"

	out := Deduplicate([]*models.ProjectRecord{a, b})
	if len(out) != 2 {
		t.Errorf("generic titles with different URLs must not merge: got %d", len(out))
	}

	// Same URL does merge.
	c := record("Read More", "", "Root Power", "Planned", nil)
	c.URL = "https://root-power.com/projects/alpha?utm=x"
	out = Deduplicate([]*models.ProjectRecord{a, c})
	if len(out) != 2 {
		t.Errorf("different generic titles stay distinct, got %d", len(out))
	}
}

func TestDeduplicateQueryStringStripped(t *testing.T) {
	a := record("AB", "", "SSE", "Planned", nil)
	a.URL = "https://sse.com/sites/ab?page=1"
	b := record("AB", "", "SSE", "Planned", nil)
	b.URL = "https://sse.com/sites/ab/"

	out := Deduplicate([]*models.ProjectRecord{a, b})
	if len(out) != 1 {
		t.Errorf("short names keyed by normalized URL should merge, got %d", len(out))
	}
}

func TestDeduplicateOutputNeverLonger(t *testing.T) {
	in := []*models.ProjectRecord{
		record("A Site", "", "S1", "Planned", Float64(10)),
		record("B Site", "", "S2", "Planned", Float64(20)),
		record("A Site", "", "S3", "Planned", Float64(10)),
		record("", "", "S4", "News", nil),
	}
	out := Deduplicate(in)
	if len(out) > len(in) {
		t.Errorf("output length %d exceeds input length %d", len(out), len(in))
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	in := []*models.ProjectRecord{
		record("Fareham Battery", "Hampshire", "REPD", "Consented", Float64(50)),
		record("Fareham Battery", "Hampshire", "EDF", "Consented", Float64(50)),
		record("Thorpe Marsh", "Yorkshire", "Fidra", "Planned", Float64(1400)),
		record("Fareham news item", "", "Energy-Storage.news", "News", nil),
	}

	once := Deduplicate(in)
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if *once[i] != *twice[i] {
			t.Errorf("record %d changed on second pass: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestDeduplicateDoesNotMutateInput(t *testing.T) {
	a := record("Fareham Battery", "", "REPD", "Consented", Float64(50))
	b := record("Fareham Battery", "", "EDF", "Consented", Float64(50))

	Deduplicate([]*models.ProjectRecord{a, b})
	if a.Source != "REPD" {
		t.Errorf("input record mutated: source %q", a.Source)
	}
}

func TestDeduplicatePreservesFirstAppearanceOrder(t *testing.T) {
	in := []*models.ProjectRecord{
		record("Zulu Site", "", "S1", "Planned", Float64(5)),
		record("Alpha Site", "", "S2", "Planned", Float64(10)),
		record("Zulu Site", "", "S3", "Planned", Float64(5)),
	}
	out := Deduplicate(in)
	if len(out) != 2 || out[0].SiteName != "Zulu Site" || out[1].SiteName != "Alpha Site" {
		t.Errorf("order not preserved: %+v", out)
	}
}
