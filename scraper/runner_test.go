package scraper

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"bess-tracker/models"
	"bess-tracker/services"
	"bess-tracker/utils"
)

func fakeSource(name string, rows ...*models.ProjectRecord) Source {
	return Source{
		Name: name,
		Fetch: func(opts Options) ([]*models.ProjectRecord, error) {
			return rows, nil
		},
	}
}

func failingSource(name string) Source {
	return Source{
		Name: name,
		Fetch: func(opts Options) ([]*models.ProjectRecord, error) {
			return nil, errors.New("markup changed")
		},
	}
}

func TestRunnerIsolatesFailures(t *testing.T) {
	logger := utils.NewLogger()

	a := services.NewProjectRecord("Alpha Site", "Source A", "https://a.example/alpha",
		services.RowOptions{CapacityMW: "10MW", Status: "Planned"})
	b := services.NewProjectRecord("Beta Site", "Source B", "https://b.example/beta",
		services.RowOptions{CapacityMW: "20MW", Status: "Consented"})

	withFailure := NewRunner([]Source{
		fakeSource("Source A", a),
		failingSource("Broken"),
		fakeSource("Source B", b),
	}, logger).Run()

	withoutBroken := NewRunner([]Source{
		fakeSource("Source A", a),
		fakeSource("Source B", b),
	}, logger).Run()

	if len(withFailure) != len(withoutBroken) {
		t.Fatalf("failing source changed the result: %d vs %d records",
			len(withFailure), len(withoutBroken))
	}
	for i := range withFailure {
		if !reflect.DeepEqual(withFailure[i], withoutBroken[i]) {
			t.Errorf("record %d differs: %+v vs %+v", i, withFailure[i], withoutBroken[i])
		}
	}
}

func TestRunnerAllSourcesFail(t *testing.T) {
	merged := NewRunner([]Source{
		failingSource("One"),
		failingSource("Two"),
	}, utils.NewLogger()).Run()

	if len(merged) != 0 {
		t.Errorf("expected empty result, got %d records", len(merged))
	}
}

func TestRunnerDisablesPerSourcePersistence(t *testing.T) {
	var got Options
	src := Source{
		Name: "Probe",
		Fetch: func(opts Options) ([]*models.ProjectRecord, error) {
			got = opts
			return nil, nil
		},
	}

	NewRunner([]Source{src}, utils.NewLogger()).Run()
	if got.SaveCSV || got.SaveJSON || got.DateSuffix != "" {
		t.Errorf("runner must disable adapter-side persistence, got %+v", got)
	}
}

// End-to-end merge scenario: an official listing, a News duplicate from a
// second source, and a source that fails outright.
func TestRunnerMergesAcrossSources(t *testing.T) {
	official := services.NewProjectRecord("Fareham Battery", "British Solar Renewables",
		"https://britishrenewables.com/fareham",
		services.RowOptions{CapacityMW: "50MW", Status: "Operational"})
	duplicate := services.NewProjectRecord("Fareham Battery", "Energy-Storage.news",
		"https://energy-storage.news/fareham-article",
		services.RowOptions{CapacityMW: "50.04MW", Status: "News"})

	merged := NewRunner([]Source{
		fakeSource("British Solar Renewables", official),
		fakeSource("Energy-Storage.news", duplicate),
		failingSource("ECR UKPN"),
	}, utils.NewLogger()).Run()

	if len(merged) != 1 {
		t.Fatalf("expected exactly 1 merged record, got %d", len(merged))
	}
	got := merged[0]
	if got.Status != "Operational" {
		t.Errorf("status: got %q, want Operational", got.Status)
	}
	if !strings.Contains(got.Source, "British Solar Renewables") ||
		!strings.Contains(got.Source, "Energy-Storage.news") {
		t.Errorf("source must list both origins, got %q", got.Source)
	}
	if got.CapacityMWNumeric == nil || *got.CapacityMWNumeric != 50 {
		t.Errorf("capacity: got %v, want 50", got.CapacityMWNumeric)
	}
}
