package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/willi202202/rechnungen-sort/internal/config"
	"github.com/willi202202/rechnungen-sort/internal/provider"
	"github.com/willi202202/rechnungen-sort/internal/storage"
	"github.com/willi202202/rechnungen-sort/internal/strom"
)

// ExportXLSX writes one workbook with a sheet per provider (stored records)
// plus a sheet with the recomputed electricity objects.
func ExportXLSX(db *storage.DB, cfg config.Config, outputPath string) error {
	f := excelize.NewFile()
	firstSheet := f.GetSheetName(0)
	renamed := false

	for _, p := range provider.NewRegistry(cfg).Providers() {
		tab, ok := p.(provider.Tabular)
		if !ok {
			continue
		}
		records, err := db.ListRecords(p.Name())
		if err != nil {
			return err
		}

		sheet := p.Name()
		if !renamed {
			if err := f.SetSheetName(firstSheet, sheet); err != nil {
				return err
			}
			renamed = true
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		writeRow(f, sheet, 1, tab.CSVHeader())
		for i, rec := range records {
			writeRow(f, sheet, i+2, tab.CSVRow(rec))
		}
	}

	verified, err := db.ListVerifiedObjects()
	if err != nil {
		return err
	}
	if _, err := f.NewSheet("Strom_Verifiziert"); err != nil {
		return err
	}
	writeRow(f, "Strom_Verifiziert", 1, strom.VerifiedCSVHeader())
	for i, vo := range verified {
		writeRow(f, "Strom_Verifiziert", i+2, strom.VerifiedCSVRow(vo.Row, vo.Result))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
