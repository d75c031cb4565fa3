package strom

import (
	"testing"

	"github.com/shopspring/decimal"
)

const objectPage = `Elektroversorgung Musterdorf
Objekt: Hauptstrasse 1, 6430 Schwyz
Bezugsermittlung
Hochtarif Energie 01.07.25 01.10.25 38471234 10'000 10'934 934 kWh
Niedertarif Energie 01.07.25 01.10.25 5'000 5'500 500 kWh
Betragsermittlung
Hochtarif Energie 934 kWh 0.1800 168.12
Niedertarif Energie 500 kWh 0.1500 75.00
Hochtarif Netznutzung 934 kWh 0.0900 84.06
Niedertarif Netznutzung 500 kWh 0.0700 35.00
Grundpreis pro Messstelle 10.00 CHF/Monat 30.00
Total exkl. MWST 470.48 8.1 508.59
Abgaben
Systemdienstleistungen 1'434 kWh 0.0046 6.60
Kostendeckende Einspeisevergütung 1'434 kWh 0.0230 32.98
Abgabe an die Gemeinde 1'434 kWh 0.0150 21.51
Stromreserve 1'434 kWh 0.0120 17.21
Total Objekt 508.59
`

func eq(t *testing.T, name string, got *decimal.Decimal, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s is nil, want %s", name, want)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestParseObjectPage(t *testing.T) {
	row := ParseObjectPage(objectPage, "98'7654", "strom.pdf")
	if row == nil {
		t.Fatal("expected a row")
	}

	if row.Object != "Hauptstrasse 1, 6430 Schwyz" {
		t.Fatalf("object = %q", row.Object)
	}
	if row.InvoiceNumber != "98'7654" {
		t.Fatalf("invoice number = %q", row.InvoiceNumber)
	}
	if row.PeriodFrom != "01.07.2025" || row.PeriodTo != "01.10.2025" {
		t.Fatalf("period = %q..%q", row.PeriodFrom, row.PeriodTo)
	}

	eq(t, "HT old", row.HTReadingOld, "10000")
	eq(t, "HT new", row.HTReadingNew, "10934")
	eq(t, "HT consumption", row.HTConsumptionKWh, "934")
	eq(t, "NT old", row.NTReadingOld, "5000")
	eq(t, "NT new", row.NTReadingNew, "5500")
	eq(t, "NT consumption", row.NTConsumptionKWh, "500")

	eq(t, "HT energy rate", row.HTEnergyRate, "0.18")
	eq(t, "NT energy rate", row.NTEnergyRate, "0.15")
	eq(t, "HT network rate", row.HTNetworkRate, "0.09")
	eq(t, "NT network rate", row.NTNetworkRate, "0.07")

	eq(t, "base fee rate", row.BaseFeeRate, "10")
	if !row.BaseFeeBilled {
		t.Fatal("base fee should count as billed")
	}
	eq(t, "VAT", row.VATRatePercent, "8.1")

	eq(t, "system services", row.SystemServicesRate, "0.0046")
	eq(t, "feed-in", row.FeedInRate, "0.023")
	eq(t, "municipal", row.MunicipalRate, "0.015")
	eq(t, "reserve", row.ReserveRate, "0.012")

	eq(t, "stated total", row.StatedTotal, "508.59")
	if row.File != "strom.pdf" {
		t.Fatalf("file = %q", row.File)
	}
}

func TestParseObjectPageRoundTrip(t *testing.T) {
	row := ParseObjectPage(objectPage, "1", "strom.pdf")
	if row == nil {
		t.Fatal("expected a row")
	}
	res := Verify(*row)
	if !res.OK {
		t.Fatalf("recomputed %s vs stated %s, delta %s", res.RecalcTotal, res.StatedTotal, res.Delta)
	}
	if res.BaseFeeMonths != 3 {
		t.Fatalf("months = %d", res.BaseFeeMonths)
	}
}

func TestParseObjectPageRejectsImplausibleVAT(t *testing.T) {
	page := `Objekt: Nebenhaus
Bezugsermittlung
Hochtarif Energie 01.01.25 01.04.25 1 100 200 100 kWh
Betragsermittlung
Verwaltungsgebühr 100.00 2.6 102.60
Total Objekt 102.60
`
	row := ParseObjectPage(page, "", "x.pdf")
	if row == nil {
		t.Fatal("expected a row")
	}
	if row.VATRatePercent != nil {
		t.Fatalf("VAT = %s, want nil for a percent outside the window", row.VATRatePercent)
	}
}

func TestParseObjectPageWithoutConsumptionSection(t *testing.T) {
	if row := ParseObjectPage("Objekt: Leerseite\nnur Werbung\n", "", "x.pdf"); row != nil {
		t.Fatalf("expected nil, got %+v", row)
	}
	if row := ParseObjectPage("Seite ohne Objektangabe\nBezugsermittlung\n", "", "x.pdf"); row != nil {
		t.Fatalf("expected nil, got %+v", row)
	}
}

func TestParseDocument(t *testing.T) {
	first := "Elektroversorgung Musterdorf\nRechnungsnummer 123'456\nÜbersicht\n"
	pages := []string{first, objectPage, "Zahlungsbedingungen\n"}

	invoiceNumber, rows := ParseDocument(pages, "strom.pdf")
	if invoiceNumber != "123'456" {
		t.Fatalf("invoice number = %q", invoiceNumber)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].InvoiceNumber != invoiceNumber {
		t.Fatalf("row invoice number = %q", rows[0].InvoiceNumber)
	}
}
