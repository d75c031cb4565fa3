package strom

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/textutil"
)

// Tolerance is the maximum absolute deviation, in CHF, between the recomputed
// and the stated object total before the object is flagged.
var Tolerance = decimal.New(5, -2) // 0.05

var percentDivisor = decimal.NewFromInt(100)

// MonthsBetween counts whole months from one date to another: the raw month
// difference, minus one when the end day of month falls short of the start
// day, floored at zero.
func MonthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// Verify recomputes the object's cost breakdown from its tariff rates and
// compares the result against the stated total. Missing fields count as zero;
// the computation never fails, a wildly off delta is the diagnostic for a
// parsing problem. Every component is rounded to 2 decimals where it is
// computed, before summing, because the rounding order feeds the tolerance
// check.
func Verify(row internal.StromObjectRow) internal.VerifyResult {
	htKWh := dval(row.HTConsumptionKWh)
	ntKWh := dval(row.NTConsumptionKWh)
	totKWh := htKWh.Add(ntKWh)

	energy := htKWh.Mul(dval(row.HTEnergyRate)).Add(ntKWh.Mul(dval(row.NTEnergyRate))).Round(2)
	network := htKWh.Mul(dval(row.HTNetworkRate)).Add(ntKWh.Mul(dval(row.NTNetworkRate))).Round(2)

	levyRate := dval(row.SystemServicesRate).
		Add(dval(row.FeedInRate)).
		Add(dval(row.MunicipalRate)).
		Add(dval(row.ReserveRate))
	levies := totKWh.Mul(levyRate).Round(2)

	months := billedMonths(row.PeriodFrom, row.PeriodTo)
	baseFee := decimal.Zero
	if row.BaseFeeBilled {
		baseFee = dval(row.BaseFeeRate).Mul(decimal.NewFromInt(int64(months))).Round(2)
	}

	subtotal := energy.Add(network).Add(levies).Add(baseFee)

	vatPercent := dval(row.VATRatePercent)
	vatAmount := subtotal.Mul(vatPercent.Div(percentDivisor)).Round(2)
	recalc := subtotal.Add(vatAmount)

	stated := dval(row.StatedTotal).Round(2)
	delta := recalc.Sub(stated)

	return internal.VerifyResult{
		BaseFeeMonths: months,
		Energy:        energy,
		Network:       network,
		Levies:        levies,
		BaseFee:       baseFee,
		SubtotalExcl:  subtotal,
		VATPercent:    vatPercent,
		VATAmount:     vatAmount,
		RecalcTotal:   recalc,
		StatedTotal:   stated,
		Delta:         delta,
		OK:            delta.Abs().Cmp(Tolerance) <= 0,
	}
}

func billedMonths(from, to string) int {
	d1, ok1 := textutil.ParseDMY(from)
	d2, ok2 := textutil.ParseDMY(to)
	if !ok1 || !ok2 {
		return 0
	}
	return MonthsBetween(d1, d2)
}

func dval(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
