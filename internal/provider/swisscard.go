package provider

import (
	"regexp"
	"strings"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/textutil"
)

var (
	reCardDate     = regexp.MustCompile(`Rechnungsdatum\s+(\d{2}\.\d{2}\.\d{4})`)
	reAnyFullDate  = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
	reCardBlock    = regexp.MustCompile(`(?s)Mindestzahlung.*?(CHF\s*[0-9' .]+\d{2}(?:\s+CHF\s*[0-9' .]+\d{2})*)`)
	reCardAmounts  = regexp.MustCompile(`CHF\s*([0-9' .]+\d{2})`)
	cardBlockCount = 5
)

// Swisscard parses card statements. The summary block after the
// "Mindestzahlung" marker carries exactly five CHF amounts in document order:
// previous balance, payments received, new transactions, new balance, minimum
// payment. Anything other than five amounts invalidates the whole block.
type Swisscard struct {
	useMinimumPayment bool
}

func NewSwisscard(useMinimumPayment bool) *Swisscard {
	return &Swisscard{useMinimumPayment: useMinimumPayment}
}

func (p *Swisscard) Name() string { return "Swisscard" }

func (p *Swisscard) Keywords() []string {
	return []string{"Swisscard AECS GmbH", "Cashback Cards", "1001 0765 294"}
}

func (p *Swisscard) Matches(text string) bool {
	return matchesKeywords(text, p.Keywords())
}

func (p *Swisscard) Parse(text, filename string) internal.Record {
	rec := internal.Record{File: filename}

	if m := reCardDate.FindStringSubmatch(text); m != nil {
		rec.Date = m[1]
	} else if m := reAnyFullDate.FindStringSubmatch(text); m != nil {
		rec.Date = m[1]
	}

	block := findAmountBlock(text)
	if block == nil {
		// Structural mismatch: the whole block failed, the record stays
		// empty rather than partially filled.
		return rec
	}

	raw := block[3] // new balance
	if p.useMinimumPayment {
		raw = block[4]
	}
	rec.RawAmount = raw
	if amt := textutil.NormalizeAmount(raw); amt != nil {
		rec.Amount = *amt
	}
	return rec
}

func (p *Swisscard) CSVHeader() []string {
	return []string{"Rechnungsdatum", "Betrag", "Datei"}
}

func (p *Swisscard) CSVRow(rec internal.Record) []string {
	return []string{rec.Date, rec.Amount.StringFixed(2), rec.File}
}

// findAmountBlock returns the five raw amounts following the minimum-payment
// marker, or nil when the run of consecutive CHF amounts does not contain
// exactly five. Fewer or more than five is a parse failure for the whole
// block, never a truncated result.
func findAmountBlock(text string) []string {
	m := reCardBlock.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	matches := reCardAmounts.FindAllStringSubmatch(m[1], -1)
	if len(matches) != cardBlockCount {
		return nil
	}
	out := make([]string, 0, cardBlockCount)
	for _, am := range matches {
		out = append(out, strings.TrimSpace(am[1]))
	}
	return out
}
