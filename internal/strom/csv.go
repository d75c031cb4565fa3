package strom

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/willi202202/rechnungen-sort/internal"
)

// CSVHeader is the column set of strom.csv, one row per billed object.
func CSVHeader() []string {
	return []string{
		"Rechnungsnummer",
		"Objekt",
		"Zeitraum_von",
		"Zeitraum_bis",
		"MWST_Satz_prozent",
		"Grundpreis_Messstelle_Ansatz_CHF",
		"Grundpreis_verrechnet",
		"Systemdienstleistungen_Ansatz_CHF",
		"KEV_Ansatz_CHF",
		"Abgabe_Gemeinde_Ansatz_CHF",
		"Stromreserve_Ansatz_CHF",
		"HT_Stand_alt_kWh",
		"HT_Stand_neu_kWh",
		"HT_Bezug_kWh",
		"HT_Energie_Ansatz_CHF_kWh",
		"HT_Netznutzung_Ansatz_CHF_kWh",
		"NT_Stand_alt_kWh",
		"NT_Stand_neu_kWh",
		"NT_Bezug_kWh",
		"NT_Energie_Ansatz_CHF_kWh",
		"NT_Netznutzung_Ansatz_CHF_kWh",
		"Total_Objekt_CHF",
		"Datei",
	}
}

func CSVRow(row internal.StromObjectRow) []string {
	return []string{
		row.InvoiceNumber,
		row.Object,
		row.PeriodFrom,
		row.PeriodTo,
		optStr(row.VATRatePercent),
		optStr(row.BaseFeeRate),
		strconv.FormatBool(row.BaseFeeBilled),
		optStr(row.SystemServicesRate),
		optStr(row.FeedInRate),
		optStr(row.MunicipalRate),
		optStr(row.ReserveRate),
		optStr(row.HTReadingOld),
		optStr(row.HTReadingNew),
		optStr(row.HTConsumptionKWh),
		optStr(row.HTEnergyRate),
		optStr(row.HTNetworkRate),
		optStr(row.NTReadingOld),
		optStr(row.NTReadingNew),
		optStr(row.NTConsumptionKWh),
		optStr(row.NTEnergyRate),
		optStr(row.NTNetworkRate),
		optStr(row.StatedTotal),
		row.File,
	}
}

// VerifiedCSVHeader extends CSVHeader with the recomputed columns of
// strom_verified.csv.
func VerifiedCSVHeader() []string {
	return append(CSVHeader(),
		"Monate_Grundpreis",
		"Exkl_Energie_CHF",
		"Exkl_Netznutzung_CHF",
		"Exkl_Abgaben_CHF",
		"Exkl_Grundpreis_CHF",
		"Exkl_Summe_CHF",
		"MWST_Betrag_CHF",
		"Recalc_Total_Inkl_CHF",
		"Delta_CHF",
		"OK",
	)
}

func VerifiedCSVRow(row internal.StromObjectRow, res internal.VerifyResult) []string {
	return append(CSVRow(row),
		strconv.Itoa(res.BaseFeeMonths),
		res.Energy.StringFixed(2),
		res.Network.StringFixed(2),
		res.Levies.StringFixed(2),
		res.BaseFee.StringFixed(2),
		res.SubtotalExcl.StringFixed(2),
		res.VATAmount.StringFixed(2),
		res.RecalcTotal.StringFixed(2),
		res.Delta.StringFixed(2),
		strconv.FormatBool(res.OK),
	)
}

func optStr(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
