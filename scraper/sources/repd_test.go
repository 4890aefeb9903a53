package sources

import (
	"testing"

	"bess-tracker/config"
)

const repdCSV = `Ref ID,Site Name,Technology Type,Installed Capacity (MWelec),Development Status (short),Region,Country
1001,Cleve Hill BESS,Battery Storage,"350",Under Construction,South East,England
1002,Little Crow Solar,Solar Photovoltaics,150,Operational,Yorkshire,England
1003,Salt End BESS,Electricity Storage,"1,040",Awaiting Construction,Yorkshire,England
1004,,Battery Storage,20,Operational,Wales,Wales
`

func TestREPDExtract(t *testing.T) {
	rows, err := parseCSVTable(repdCSV)
	if err != nil {
		t.Fatal(err)
	}

	meta := config.SourceMeta{Name: "UK REPD – Renewable Energy Planning Database", URL: "https://www.gov.uk/repd", Country: "UK"}
	s := &REPD{}
	records := s.extract(rows, meta)

	// Solar row filtered out (technology has no "storage"), empty site dropped.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.SiteName != "Cleve Hill BESS" {
		t.Errorf("site = %q", first.SiteName)
	}
	if first.Status != "In-construction" {
		t.Errorf("status = %q, want In-construction", first.Status)
	}

	second := records[1]
	if second.SiteName != "Salt End BESS" {
		t.Errorf("site = %q", second.SiteName)
	}
	if second.CapacityMWNumeric == nil || *second.CapacityMWNumeric != 1040 {
		t.Errorf("comma-grouped capacity = %v, want 1040", second.CapacityMWNumeric)
	}
	if second.Status != "Consented" {
		t.Errorf("status = %q, want Consented (awaiting construction)", second.Status)
	}
	if second.Region != "Yorkshire" {
		t.Errorf("region = %q", second.Region)
	}
}

func TestREPDExtractNoTechnologyColumn(t *testing.T) {
	rows, err := parseCSVTable("Site Name,Capacity\nSomewhere,50\n")
	if err != nil {
		t.Fatal(err)
	}
	s := &REPD{}
	if got := s.extract(rows, config.SourceMeta{}); got != nil {
		t.Errorf("expected nil without a technology column, got %d records", len(got))
	}
}

func TestREPDFindLatestCSVURL(t *testing.T) {
	html := `<html><body>
		<a href="/government/uploads/quarterly-stats.csv">Stats</a>
		<a href="https://assets.publishing.service.gov.uk/media/abc/repd-q2-2025.csv">REPD extract</a>
		<a href="/guidance">Guidance</a>
	</body></html>`
	doc, err := parseDocument(html)
	if err != nil {
		t.Fatal(err)
	}

	s := &REPD{}
	got := s.findLatestCSVURL(doc)
	want := "https://assets.publishing.service.gov.uk/media/abc/repd-q2-2025.csv"
	if got != want {
		t.Errorf("csv url = %q, want %q", got, want)
	}
}
