package csv

import (
	"testing"

	"github.com/charmbracelet/log"

	"texrecon/pkg/models"
	"texrecon/pkg/parser"
)

func TestCreateEmptyInput(t *testing.T) {
	if got := Create(nil, ','); len(got) != 0 {
		t.Errorf("Create(nil) = %q, want empty", got)
	}
	if got := Create([]*models.Record{}, ','); len(got) != 0 {
		t.Errorf("Create(empty) = %q, want empty", got)
	}
}

func TestCreateQuotesAndEscapes(t *testing.T) {
	r := models.NewRecord()
	r.Set("Item Id", "A1")
	r.Set("Name", `Acme, "The" Ltd`)
	r.Set("Missing", "")

	got := string(Create([]*models.Record{r}, ','))
	want := "Item Id,Name,Missing\n\"A1\",\"Acme, \"\"The\"\" Ltd\",\"\""
	if got != want {
		t.Errorf("Create() = %q, want %q", got, want)
	}
}

func TestCreateUsesFirstRecordKeyOrder(t *testing.T) {
	first := models.NewRecord()
	first.Set("Item Id", "A1")
	first.Set("Qty", "5")

	// The second record has an extra key; it is not in the header and is
	// dropped, while its missing Qty serializes as empty.
	second := models.NewRecord()
	second.Set("Item Id", "B2")
	second.Set("Extra", "x")

	got := string(Create([]*models.Record{first, second}, ','))
	want := "Item Id,Qty\n\"A1\",\"5\"\n\"B2\",\"\""
	if got != want {
		t.Errorf("Create() = %q, want %q", got, want)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	a := models.NewRecord()
	a.Set("Item Id", "A1")
	a.Set("Name", `Acme, "The" Ltd`)
	a.Set("Amount", "1234.50")

	b := models.NewRecord()
	b.Set("Item Id", "B2")
	b.Set("Name", "Plain")
	b.Set("Amount", "-45.2")

	records := []*models.Record{a, b}

	p := parser.New(log.Default())
	firstPass := Create(records, ',')
	reparsed := p.Parse(string(firstPass))
	secondPass := Create(reparsed, ',')

	if string(firstPass) != string(secondPass) {
		t.Errorf("round trip diverged:\nfirst:  %q\nsecond: %q", firstPass, secondPass)
	}

	if len(reparsed) != len(records) {
		t.Fatalf("reparsed %d records, want %d", len(reparsed), len(records))
	}
	for i, orig := range records {
		for _, key := range orig.Keys() {
			if reparsed[i].Get(key) != orig.Get(key) {
				t.Errorf("record %d field %q = %q, want %q", i, key, reparsed[i].Get(key), orig.Get(key))
			}
		}
	}
}
