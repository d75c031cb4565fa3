package provider

import (
	"strings"

	"github.com/willi202202/rechnungen-sort/internal"
)

// Provider recognizes one vendor/document family and extracts its canonical
// record. Matches is a pure keyword gate; Parse never fails, missing fields
// degrade to zero values.
type Provider interface {
	Name() string

	// Keywords that must all occur in the document text (case-insensitive
	// substring match) for the provider to claim it.
	Keywords() []string

	Matches(text string) bool
	Parse(text, filename string) internal.Record
}

// Tabular providers define a delimited output shape for their records. The
// electricity provider does not implement it; its rows are per billed object,
// not per document.
type Tabular interface {
	CSVHeader() []string
	CSVRow(rec internal.Record) []string
}

// ObjectParser is the extra capability of the electricity provider: one
// invoice yields the invoice number plus one row per billed object.
type ObjectParser interface {
	ParseObjects(text, filename string) (string, []internal.StromObjectRow)
}

// matchesKeywords is the shared recognition predicate: every keyword must be
// present. Non-breaking spaces are folded to regular spaces first, because
// extracted PDF text mixes the two. An empty keyword set never matches.
func matchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	upper := strings.ToUpper(strings.ReplaceAll(text, " ", " "))
	for _, kw := range keywords {
		if !strings.Contains(upper, strings.ToUpper(kw)) {
			return false
		}
	}
	return true
}
