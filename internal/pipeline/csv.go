package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/willi202202/rechnungen-sort/internal/pdftext"
	"github.com/willi202202/rechnungen-sort/internal/provider"
	"github.com/willi202202/rechnungen-sort/internal/strom"
)

type BuildStats struct {
	Total   int
	Written int
	Skipped int
	Errors  int
}

// BuildProviderCSV re-parses every PDF in the provider folder and rewrites
// the folder's CSV from scratch. Files that do not match the provider's
// keywords are skipped, not errors; a statement from another vendor may have
// been dropped into the wrong folder by hand.
func BuildProviderCSV(p provider.Provider, pdfDir, csvPath string) (BuildStats, error) {
	tab, ok := p.(provider.Tabular)
	if !ok {
		return BuildStats{}, fmt.Errorf("provider %s has no tabular output", p.Name())
	}

	pdfs, err := listPDFs(pdfDir)
	if err != nil {
		return BuildStats{}, err
	}

	writer, closeFn, err := newCSVWriter(csvPath)
	if err != nil {
		return BuildStats{}, err
	}
	defer closeFn()

	if err := writer.Write(tab.CSVHeader()); err != nil {
		return BuildStats{}, err
	}

	stats := BuildStats{Total: len(pdfs)}
	for _, path := range pdfs {
		text, err := pdftext.ExtractFile(path)
		if err != nil {
			stats.Errors++
			continue
		}
		if !p.Matches(text) {
			stats.Skipped++
			continue
		}
		rec := p.Parse(text, filepath.Base(path))
		if err := writer.Write(tab.CSVRow(rec)); err != nil {
			return stats, err
		}
		stats.Written++
	}

	writer.Flush()
	return stats, writer.Error()
}

// BuildStromCSV writes one row per billed object across every electricity
// invoice in the folder.
func BuildStromCSV(pdfDir, csvPath string) (BuildStats, error) {
	p := provider.NewStrom()

	pdfs, err := listPDFs(pdfDir)
	if err != nil {
		return BuildStats{}, err
	}

	writer, closeFn, err := newCSVWriter(csvPath)
	if err != nil {
		return BuildStats{}, err
	}
	defer closeFn()

	if err := writer.Write(strom.CSVHeader()); err != nil {
		return BuildStats{}, err
	}

	stats := BuildStats{Total: len(pdfs)}
	for _, path := range pdfs {
		text, err := pdftext.ExtractFile(path)
		if err != nil {
			stats.Errors++
			continue
		}
		if !p.Matches(text) {
			stats.Skipped++
			continue
		}
		_, rows := p.ParseObjects(text, filepath.Base(path))
		for _, row := range rows {
			if err := writer.Write(strom.CSVRow(row)); err != nil {
				return stats, err
			}
		}
		stats.Written++
	}

	writer.Flush()
	return stats, writer.Error()
}

// newCSVWriter opens csvPath for overwrite with the semicolon delimiter the
// downstream spreadsheets expect.
func newCSVWriter(csvPath string) (*csv.Writer, func(), error) {
	if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, nil, err
	}
	writer := csv.NewWriter(f)
	writer.Comma = ';'
	return writer, func() { _ = f.Close() }, nil
}
