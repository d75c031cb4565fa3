package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/config"
	"github.com/willi202202/rechnungen-sort/internal/storage"
)

func TestSmokeStorageToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	docID, err := db.UpsertDocument("invoice.pdf", "hash-1", "Swisscom", internal.ScanMoved)
	if err != nil {
		t.Fatal(err)
	}
	rec := internal.Record{
		Date:      "06.11.2025",
		Amount:    decimal.RequireFromString("89.90"),
		RawAmount: "89.90",
		File:      "invoice.pdf",
	}
	if _, err := db.InsertRecord(docID, "Swisscom", rec); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(tmp, "out", "rechnungen.xlsx")
	if err := ExportXLSX(db, config.Config{}, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Swisscom")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[1][0] != "06.11.2025" || rows[1][1] != "89.90" {
		t.Fatalf("data row = %v", rows[1])
	}

	sheets := f.GetSheetList()
	found := false
	for _, s := range sheets {
		if s == "Strom_Verifiziert" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing verification sheet, sheets = %v", sheets)
	}
}

func TestWriteSummary(t *testing.T) {
	summary := ScanSummary{
		Scanned:   3,
		Moved:     2,
		Unmatched: 1,
		Outcomes: []internal.ScanOutcome{
			{File: "a.pdf", Status: internal.ScanMoved},
			{File: "b.pdf", Status: internal.ScanUnmatched},
		},
	}
	var b strings.Builder
	WriteSummary(&b, summary)
	out := b.String()
	if !strings.Contains(out, "Verschobene PDFs:         2") {
		t.Fatalf("summary missing moved count:\n%s", out)
	}
	if !strings.Contains(out, "- b.pdf") {
		t.Fatalf("summary missing unmatched file:\n%s", out)
	}
}

func TestListPDFsMissingDir(t *testing.T) {
	pdfs, err := listPDFs(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatal(err)
	}
	if len(pdfs) != 0 {
		t.Fatalf("pdfs = %d", len(pdfs))
	}
}

func TestListPDFsFiltersAndSorts(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	pdfs, err := listPDFs(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(pdfs) != 2 {
		t.Fatalf("pdfs = %v", pdfs)
	}
	if filepath.Base(pdfs[0]) != "a.PDF" || filepath.Base(pdfs[1]) != "b.pdf" {
		t.Fatalf("order = %v", pdfs)
	}
}
