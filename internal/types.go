package internal

import "github.com/shopspring/decimal"

// Record is the generic result of parsing one document. Every provider fills
// Date, Amount and File; the statement provider additionally carries the
// reporting period. Missing fields degrade to their zero value, never to an
// error, so downstream consumers always see a complete shape.
type Record struct {
	Date      string // DD.MM.YYYY, empty when not found
	Amount    decimal.Decimal
	RawAmount string
	FromDate  string // statement period start, statements only
	ToDate    string // statement period end, statements only
	File      string
}

type ScanStatus string

const (
	ScanMoved     ScanStatus = "moved"
	ScanUnmatched ScanStatus = "unmatched"
	ScanError     ScanStatus = "error"
)

// ScanOutcome is the per-document result of an inbox scan. Warnings carry
// partial-extraction conditions (empty date, zero amount); the record itself
// stays complete.
type ScanOutcome struct {
	File     string
	Provider string
	Status   ScanStatus
	Record   *Record
	Warnings []string
}

// StromObjectRow is one billed object of a multi-object electricity invoice.
// HT = Hochtarif (high tariff), NT = Niedertarif (low tariff). Consumption is
// taken as printed on the invoice, not re-derived from the meter readings.
// Nil means the field did not parse; the verifier treats nil as zero.
type StromObjectRow struct {
	InvoiceNumber string
	Object        string
	PeriodFrom    string // DD.MM.YYYY
	PeriodTo      string // DD.MM.YYYY

	VATRatePercent *decimal.Decimal

	// Base fee per metering point, CHF/month, and whether it was billed
	// this period at all.
	BaseFeeRate   *decimal.Decimal
	BaseFeeBilled bool

	// Levies, CHF/kWh.
	SystemServicesRate *decimal.Decimal
	FeedInRate         *decimal.Decimal // kostendeckende Einspeisevergütung
	MunicipalRate      *decimal.Decimal
	ReserveRate        *decimal.Decimal // Stromreserve

	HTReadingOld     *decimal.Decimal
	HTReadingNew     *decimal.Decimal
	HTConsumptionKWh *decimal.Decimal
	HTEnergyRate     *decimal.Decimal // CHF/kWh
	HTNetworkRate    *decimal.Decimal // CHF/kWh

	NTReadingOld     *decimal.Decimal
	NTReadingNew     *decimal.Decimal
	NTConsumptionKWh *decimal.Decimal
	NTEnergyRate     *decimal.Decimal
	NTNetworkRate    *decimal.Decimal

	StatedTotal *decimal.Decimal // Total Objekt, incl. VAT
	File        string
}

// VerifyResult is the recomputed cost breakdown for one StromObjectRow. All
// amounts are rounded to 2 decimals at the point of computation; the delta is
// signed and always reported, OK only states whether it is within tolerance.
type VerifyResult struct {
	BaseFeeMonths int

	Energy       decimal.Decimal
	Network      decimal.Decimal
	Levies       decimal.Decimal
	BaseFee      decimal.Decimal
	SubtotalExcl decimal.Decimal
	VATPercent   decimal.Decimal
	VATAmount    decimal.Decimal
	RecalcTotal  decimal.Decimal
	StatedTotal  decimal.Decimal
	Delta        decimal.Decimal
	OK           bool
}
