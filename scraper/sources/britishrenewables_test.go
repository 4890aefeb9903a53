package sources

import (
	"testing"

	"bess-tracker/config"
)

const bsrHTML = `
<html><body>
	<h2>Our Battery Projects</h2>
	<h2>Fareham Battery, Hampshire</h2>
	<p>Our flagship battery site.</p>
	<p>Capacity: 50MW / 100MWh lithium-ion.</p>
	<h3>Tilbury BESS, Essex</h3>
	<p>Export capacity of 30 MW.</p>
	<h2>Contact us</h2>
	<p>Call our team.</p>
</body></html>`

func TestBritishRenewablesExtract(t *testing.T) {
	doc, err := parseDocument(bsrHTML)
	if err != nil {
		t.Fatal(err)
	}

	meta := config.SourceMeta{
		Name:    "British Solar Renewables – UK Battery Storage",
		URL:     "https://britishrenewables.com/projects/battery-bess-projects",
		Country: "UK",
	}
	s := &BritishRenewables{}
	records := s.extract(doc, meta)

	// "Our Battery Projects" collapses to an empty name and "Contact us"
	// has no battery keyword; the two real sites remain.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	fareham := records[0]
	if fareham.SiteName != "Fareham Battery" {
		t.Errorf("site = %q", fareham.SiteName)
	}
	if fareham.Region != "Hampshire" {
		t.Errorf("region = %q", fareham.Region)
	}
	if fareham.Status != "Operational" {
		t.Errorf("status = %q", fareham.Status)
	}
	if fareham.CapacityMWNumeric == nil || *fareham.CapacityMWNumeric != 50 {
		t.Errorf("capacity = %v, want 50", fareham.CapacityMWNumeric)
	}

	tilbury := records[1]
	if tilbury.SiteName != "Tilbury BESS" || tilbury.Region != "Essex" {
		t.Errorf("second record = %q / %q", tilbury.SiteName, tilbury.Region)
	}
	if tilbury.CapacityMWNumeric == nil || *tilbury.CapacityMWNumeric != 30 {
		t.Errorf("capacity = %v, want 30", tilbury.CapacityMWNumeric)
	}
}
