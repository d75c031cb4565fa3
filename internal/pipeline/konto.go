package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/willi202202/rechnungen-sort/internal/pdftext"
	"github.com/willi202202/rechnungen-sort/internal/textutil"
)

// DefaultBookingTypes are the booking-type words that anchor a two-line
// account-statement entry.
var DefaultBookingTypes = []string{"E-Banking-Auftrag", "Gutschrift", "Belastung", "eBill-Rechnung"}

var (
	reAnyShortDate  = regexp.MustCompile(`\b(\d{2}\.\d{2}\.(?:\d{2}|\d{4}))\b`)
	reTrailingAmont = regexp.MustCompile(`([0-9' ]+[.,]\d{2})\s*$`)
	reUnsafeName    = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

type Booking struct {
	Date      string
	RawAmount string
	Amount    string
	Line      string
	File      string
}

// KontoFilter scans the account-statement PDFs for bookings that mention one
// payee. Statement lines carry no year context beyond two digits, so dates
// resolve to the current century.
type KontoFilter struct {
	Payee        string
	BookingTypes []string
	bookingLine  *regexp.Regexp
}

func NewKontoFilter(payee string, bookingTypes []string) *KontoFilter {
	if len(bookingTypes) == 0 {
		bookingTypes = DefaultBookingTypes
	}
	escaped := make([]string, len(bookingTypes))
	for i, t := range bookingTypes {
		escaped[i] = regexp.QuoteMeta(t)
	}
	pattern := `(?i)(\d{2}\.\d{2}\.(?:\d{2}|\d{4}))\s+(?:` + strings.Join(escaped, "|") + `)\s+(\d{2}\.\d{2}\.(?:\d{2}|\d{4}))\s+([0-9' ]+[.,]\d{2})`
	return &KontoFilter{
		Payee:        payee,
		BookingTypes: bookingTypes,
		bookingLine:  regexp.MustCompile(pattern),
	}
}

// ScanText extracts the payee's bookings from one statement text. Two layout
// variants occur: the amount sits at the end of the payee line itself, or on
// the booking line directly above it.
func (k *KontoFilter) ScanText(text, filename string) []Booking {
	payeeLower := strings.ToLower(k.Payee)
	lines := strings.Split(text, "\n")

	var out []Booking
	lastDate := ""
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if dates := reAnyShortDate.FindAllString(line, -1); len(dates) > 0 {
			lastDate = textutil.NormalizeDateCurrentCentury(dates[len(dates)-1])
		}

		if !strings.Contains(strings.ToLower(line), payeeLower) {
			continue
		}

		booking := Booking{Line: line, File: filename}
		if m := reTrailingAmont.FindStringSubmatch(line); m != nil {
			booking.RawAmount = strings.TrimSpace(m[1])
			if amt := textutil.NormalizeAmount(m[1]); amt != nil {
				booking.Amount = amt.String()
				booking.Date = lastDate
			}
		}
		if booking.Amount == "" && i > 0 {
			prev := strings.TrimSpace(lines[i-1])
			if m := k.bookingLine.FindStringSubmatch(prev); m != nil {
				if amt := textutil.NormalizeAmount(m[3]); amt != nil {
					booking.Date = textutil.NormalizeDateCurrentCentury(m[1])
					booking.RawAmount = m[3]
					booking.Amount = amt.String()
				}
			}
		}
		if booking.Amount == "" {
			continue
		}
		out = append(out, booking)
	}
	return out
}

// ScanFolder runs the filter over every PDF in the statement folder and
// writes the hits as CSV into outDir. Returns the CSV path and hit count.
func (k *KontoFilter) ScanFolder(pdfDir, outDir string) (string, int, error) {
	pdfs, err := listPDFs(pdfDir)
	if err != nil {
		return "", 0, err
	}

	safeName := strings.Trim(reUnsafeName.ReplaceAllString(k.Payee, "_"), "_")
	csvPath := filepath.Join(outDir, fmt.Sprintf("konto_%s.csv", safeName))

	writer, closeFn, err := newCSVWriter(csvPath)
	if err != nil {
		return "", 0, err
	}
	defer closeFn()

	if err := writer.Write([]string{"Datum", "Betrag_roh", "Betrag_num", "Zeile", "Datei"}); err != nil {
		return "", 0, err
	}

	hits := 0
	for _, path := range pdfs {
		text, err := pdftext.ExtractFile(path)
		if err != nil {
			continue
		}
		for _, b := range k.ScanText(text, filepath.Base(path)) {
			if err := writer.Write([]string{b.Date, b.RawAmount, b.Amount, b.Line, b.File}); err != nil {
				return csvPath, hits, err
			}
			hits++
		}
	}

	writer.Flush()
	return csvPath, hits, writer.Error()
}
