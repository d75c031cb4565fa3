package provider

import (
	"regexp"
	"strings"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/textutil"
)

var (
	reSwisscomDatum = regexp.MustCompile(`Datum[: ]+(\d{1,2}\.\s+[A-Za-zÄÖÜäöü]+\s+\d{4})`)

	// Amount labels in priority order: invoice summary, then the eBill
	// block, then the rough payment-part fallback.
	reSwisscomTotal   = regexp.MustCompile(`Rechnungstotal in CHF inkl\. MWST\s+([0-9' ]+\.\d{2})`)
	reSwisscomEBill   = regexp.MustCompile(`(?s)Rechnungsbetrag\s+inkl\. MWST\s+CHF\s+([0-9' ]+\.\d{2})`)
	reSwisscomPayPart = regexp.MustCompile(`(?s)Währung\s+CHF\s+Betrag\s+([0-9' ]+\.\d{2})`)
)

// Swisscom parses telecom invoices: a spelled-out German invoice date after a
// "Datum" label and a labeled invoice total.
type Swisscom struct{}

func NewSwisscom() *Swisscom { return &Swisscom{} }

func (p *Swisscom) Name() string { return "Swisscom" }

func (p *Swisscom) Keywords() []string {
	return []string{"Swisscom (Schweiz) AG", "Rechnungstotal in CHF inkl. MWST"}
}

func (p *Swisscom) Matches(text string) bool {
	return matchesKeywords(text, p.Keywords())
}

func (p *Swisscom) Parse(text, filename string) internal.Record {
	rec := internal.Record{File: filename}

	if m := reSwisscomDatum.FindStringSubmatch(text); m != nil {
		rec.Date = textutil.ParseGermanDate(m[1])
	}

	raw := findSwisscomAmount(text)
	if raw == "" {
		// No amount label anywhere: emit a complete record anyway, the
		// synthesized raw string keeps the CSV shape stable.
		rec.RawAmount = "0.00"
		return rec
	}

	rec.RawAmount = raw
	if amt := textutil.NormalizeAmount(raw); amt != nil {
		rec.Amount = *amt
	}
	return rec
}

func (p *Swisscom) CSVHeader() []string {
	return []string{"Rechnungsdatum", "Betrag", "Datei"}
}

func (p *Swisscom) CSVRow(rec internal.Record) []string {
	return []string{rec.Date, rec.Amount.StringFixed(2), rec.File}
}

func findSwisscomAmount(text string) string {
	for _, re := range []*regexp.Regexp{reSwisscomTotal, reSwisscomEBill, reSwisscomPayPart} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
