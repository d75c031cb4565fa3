package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/pdftext"
	"github.com/willi202202/rechnungen-sort/internal/provider"
	"github.com/willi202202/rechnungen-sort/internal/strom"
)

type VerifyStats struct {
	Invoices int
	Objects  int
	OK       int
	Failed   int
}

// VerifyStromFolder re-parses every electricity invoice in the folder,
// recomputes each object total, prints a console block per object and
// rewrites the verified CSV.
func VerifyStromFolder(pdfDir, csvPath string, w io.Writer) (VerifyStats, error) {
	p := provider.NewStrom()

	pdfs, err := listPDFs(pdfDir)
	if err != nil {
		return VerifyStats{}, err
	}

	writer, closeFn, err := newCSVWriter(csvPath)
	if err != nil {
		return VerifyStats{}, err
	}
	defer closeFn()

	if err := writer.Write(strom.VerifiedCSVHeader()); err != nil {
		return VerifyStats{}, err
	}

	stats := VerifyStats{}
	idx := 0
	for _, path := range pdfs {
		text, err := pdftext.ExtractFile(path)
		if err != nil {
			fmt.Fprintf(w, "[WARNUNG] Fehler beim Lesen von '%s': %v\n", filepath.Base(path), err)
			continue
		}
		if !p.Matches(text) {
			continue
		}
		stats.Invoices++

		_, rows := p.ParseObjects(text, filepath.Base(path))
		for _, row := range rows {
			idx++
			res := strom.Verify(row)
			strom.WriteBlock(w, idx, row, res)

			if err := writer.Write(strom.VerifiedCSVRow(row, res)); err != nil {
				return stats, err
			}

			stats.Objects++
			if res.OK {
				stats.OK++
			} else {
				stats.Failed++
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, err
	}

	fmt.Fprintln(w, "========== Zusammenfassung ==========")
	fmt.Fprintf(w, "Rechnungen:        %d\n", stats.Invoices)
	fmt.Fprintf(w, "Objekte geprüft:   %d\n", stats.Objects)
	fmt.Fprintf(w, "OK:                %d\n", stats.OK)
	fmt.Fprintf(w, "NICHT OK:          %d\n", stats.Failed)
	fmt.Fprintf(w, "Toleranz:          %s CHF\n", strom.Tolerance.StringFixed(2))
	fmt.Fprintln(w, "=====================================")

	return stats, nil
}

// VerifyRows recomputes a slice of already-parsed object rows. Used when the
// rows come from storage instead of from the PDFs.
func VerifyRows(rows []internal.StromObjectRow) []internal.VerifyResult {
	out := make([]internal.VerifyResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, strom.Verify(row))
	}
	return out
}
