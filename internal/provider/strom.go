package provider

import (
	"strings"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/pdftext"
	"github.com/willi202202/rechnungen-sort/internal/strom"
)

// Strom recognizes the municipal electricity invoice. The detailed per-object
// parsing and reconciliation live in the strom package; the generic record is
// a summary over all billed objects (latest period end, sum of object
// totals).
type Strom struct{}

func NewStrom() *Strom { return &Strom{} }

func (p *Strom) Name() string { return "Strom" }

func (p *Strom) Keywords() []string {
	return []string{strom.ProviderKeyword}
}

func (p *Strom) Matches(text string) bool {
	return matchesKeywords(text, p.Keywords())
}

func (p *Strom) Parse(text, filename string) internal.Record {
	rec := internal.Record{File: filename}

	_, rows := p.ParseObjects(text, filename)
	for _, row := range rows {
		if row.PeriodTo != "" {
			rec.Date = row.PeriodTo
		}
		if row.StatedTotal != nil {
			rec.Amount = rec.Amount.Add(*row.StatedTotal)
		}
	}
	if len(rows) > 0 {
		rec.RawAmount = rec.Amount.StringFixed(2)
	}
	return rec
}

// ParseObjects splits the extracted text back into its page segments and
// parses every object page.
func (p *Strom) ParseObjects(text, filename string) (string, []internal.StromObjectRow) {
	return strom.ParseDocument(strings.Split(text, pdftext.PageSeparator), filename)
}
