package strom

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/willi202202/rechnungen-sort/internal"
)

const barWidth = 44

// WriteBlock renders one object's verification as a console block with ASCII
// bars, scaled to the largest amount in the block.
func WriteBlock(w io.Writer, idx int, row internal.StromObjectRow, res internal.VerifyResult) {
	title := fmt.Sprintf("%s | %s – %s", orDefault(row.Object, "(ohne Objekt)"), orDefault(row.PeriodFrom, "?"), orDefault(row.PeriodTo, "?"))
	label := fmt.Sprintf("[%d] %s", idx+1, title)
	if row.InvoiceNumber != "" {
		label += fmt.Sprintf(" | Rg-Nr: %s", row.InvoiceNumber)
	}

	bar := makeBar([]decimal.Decimal{
		res.Energy, res.Network, res.Levies, res.BaseFee,
		res.VATAmount, res.RecalcTotal, res.StatedTotal,
	})

	fmt.Fprintln(w, strings.Repeat("=", len(label)))
	fmt.Fprintln(w, label)
	fmt.Fprintln(w, strings.Repeat("-", len(label)))
	fmt.Fprintf(w, "  Monate Grundpreis: %d   |  GP verrechnet: %v\n\n", res.BaseFeeMonths, row.BaseFeeBilled)
	fmt.Fprintf(w, "  Exkl. Energie      %10s CHF  %s\n", res.Energy.StringFixed(2), bar(res.Energy))
	fmt.Fprintf(w, "  Exkl. Netznutzung  %10s CHF  %s\n", res.Network.StringFixed(2), bar(res.Network))
	fmt.Fprintf(w, "  Exkl. Abgaben      %10s CHF  %s\n", res.Levies.StringFixed(2), bar(res.Levies))
	fmt.Fprintf(w, "  Exkl. Grundpreis   %10s CHF  %s\n", res.BaseFee.StringFixed(2), bar(res.BaseFee))
	fmt.Fprintf(w, "  -----------------  %s\n", strings.Repeat("-", 10))
	fmt.Fprintf(w, "  Summe exkl. MWST   %10s CHF\n", res.SubtotalExcl.StringFixed(2))
	fmt.Fprintf(w, "  MWST  (%5s%%)     %10s CHF  %s\n", res.VATPercent.StringFixed(2), res.VATAmount.StringFixed(2), bar(res.VATAmount))
	fmt.Fprintf(w, "  -----------------  %s\n", strings.Repeat("-", 10))
	fmt.Fprintf(w, "  Total (recalc)     %10s CHF  %s\n", res.RecalcTotal.StringFixed(2), bar(res.RecalcTotal))
	fmt.Fprintf(w, "  Total (Rechnung)   %10s CHF  %s\n", res.StatedTotal.StringFixed(2), bar(res.StatedTotal))

	status := "NICHT OK"
	if res.OK {
		status = "OK"
	}
	fmt.Fprintf(w, "  Delta              %10s CHF   --> %s\n\n", res.Delta.StringFixed(2), status)
}

// makeBar scales bars to the largest absolute value of the block.
func makeBar(values []decimal.Decimal) func(decimal.Decimal) string {
	max := decimal.NewFromInt(1)
	for _, v := range values {
		if abs := v.Abs(); abs.Cmp(max) > 0 {
			max = abs
		}
	}
	return func(v decimal.Decimal) string {
		n := v.Abs().Mul(decimal.NewFromInt(barWidth)).Div(max).Round(0).IntPart()
		if n < 0 {
			n = 0
		}
		return strings.Repeat("█", int(n))
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
