package sources

import (
	"testing"

	"bess-tracker/config"
)

const edfTableHTML = `
<html><body>
<table>
	<tr><th>Site</th><th>Status</th><th>Tech</th><th>Country</th><th>Capacity</th></tr>
	<tr>
		<td><a href="/our-sites/coventry-bess/">Coventry BESS</a></td>
		<td>In construction</td>
		<td>Battery storage</td>
		<td>England</td>
		<td>57MW</td>
	</tr>
	<tr>
		<td><a href="/our-sites/sutton-bridge/">Sutton Bridge</a></td>
		<td>Operational</td>
		<td>Battery storage</td>
		<td>England</td>
		<td>50MW</td>
	</tr>
	<tr>
		<td><a href="/our-sites/burwell/">Burwell</a></td>
		<td>Consented</td>
		<td>Battery storage</td>
		<td>England</td>
		<td>100MW</td>
	</tr>
</table>
</body></html>`

var edfTestMeta = config.SourceMeta{
	Name:    "EDF Renewables UK & Ireland – Battery Storage",
	URL:     "https://www.edf-re.uk/our-sites/?view=list&project_types=battery-storage",
	Country: "UK",
}

func TestEDFExtractTable(t *testing.T) {
	doc, err := parseDocument(edfTableHTML)
	if err != nil {
		t.Fatal(err)
	}

	s := &EDF{}
	records := s.extract(doc, edfTestMeta)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.SiteName != "Coventry BESS" {
		t.Errorf("site = %q", first.SiteName)
	}
	if first.Status != "In-construction" {
		t.Errorf("status = %q, want In-construction", first.Status)
	}
	if first.Region != "England" {
		t.Errorf("region = %q", first.Region)
	}
	if first.CapacityMWNumeric == nil || *first.CapacityMWNumeric != 57 {
		t.Errorf("capacity = %v, want 57", first.CapacityMWNumeric)
	}
	if first.URL != "https://www.edf-re.uk/our-sites/coventry-bess/" {
		t.Errorf("url = %q", first.URL)
	}
}

func TestEDFExtractLatestOnly(t *testing.T) {
	doc, err := parseDocument(edfTableHTML)
	if err != nil {
		t.Fatal(err)
	}

	s := &EDF{LatestOnly: true}
	records := s.extract(doc, edfTestMeta)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (operational excluded)", len(records))
	}
	for _, r := range records {
		if r.Status == "Operational" {
			t.Errorf("operational row %q kept with LatestOnly", r.SiteName)
		}
	}
}

func TestEDFExtractLinkFallback(t *testing.T) {
	html := `<html><body>
		<a href="https://www.edf-re.uk/our-sites/coventry-bess/">Coventry BESS</a>
		<a href="/our-sites/">All sites</a>
		<a href="/contact/">Contact</a>
	</body></html>`
	doc, err := parseDocument(html)
	if err != nil {
		t.Fatal(err)
	}

	s := &EDF{}
	records := s.extract(doc, edfTestMeta)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].SiteName != "Coventry BESS" {
		t.Errorf("site = %q", records[0].SiteName)
	}
	if records[0].CapacityMWNumeric != nil {
		t.Errorf("capacity should be absent at list level, got %v", *records[0].CapacityMWNumeric)
	}
}
