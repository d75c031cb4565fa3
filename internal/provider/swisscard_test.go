package provider

import (
	"fmt"
	"strings"
	"testing"
)

func cardStatement(amounts ...string) string {
	var b strings.Builder
	b.WriteString("Swisscard AECS GmbH\nCashback Cards\n1001 0765 294\n")
	b.WriteString("Rechnungsdatum 15.03.2025\n")
	b.WriteString("Mindestzahlung und Kontoübersicht\n")
	for _, a := range amounts {
		fmt.Fprintf(&b, "CHF %s\n", a)
	}
	return b.String()
}

func TestSwisscardParse(t *testing.T) {
	p := NewSwisscard(false)
	text := cardStatement("2'500.00", "2'500.00", "1'234.50", "1'234.50", "100.00")

	rec := p.Parse(text, "card.pdf")
	if rec.Date != "15.03.2025" {
		t.Fatalf("date = %q", rec.Date)
	}
	if rec.RawAmount != "1'234.50" {
		t.Fatalf("raw amount = %q, want new balance", rec.RawAmount)
	}
	if !rec.Amount.Equal(mustDec(t, "1234.50")) {
		t.Fatalf("amount = %s", rec.Amount)
	}
}

func TestSwisscardMinimumPayment(t *testing.T) {
	p := NewSwisscard(true)
	text := cardStatement("2'500.00", "2'500.00", "1'234.50", "1'234.50", "100.00")

	rec := p.Parse(text, "card.pdf")
	if rec.RawAmount != "100.00" {
		t.Fatalf("raw amount = %q, want minimum payment", rec.RawAmount)
	}
}

func TestSwisscardBlockCountStrict(t *testing.T) {
	// Four or six consecutive amounts invalidate the whole block: the
	// record keeps its date but no amount, never a truncated pick.
	for _, n := range []int{4, 6} {
		amounts := make([]string, n)
		for i := range amounts {
			amounts[i] = fmt.Sprintf("%d.00", (i+1)*100)
		}
		rec := NewSwisscard(false).Parse(cardStatement(amounts...), "card.pdf")
		if rec.RawAmount != "" || !rec.Amount.IsZero() {
			t.Fatalf("%d amounts: expected empty amount, got raw=%q amount=%s", n, rec.RawAmount, rec.Amount)
		}
		if rec.Date != "15.03.2025" {
			t.Fatalf("%d amounts: date = %q", n, rec.Date)
		}
	}
}

func TestSwisscardDateFallback(t *testing.T) {
	text := "Swisscard AECS GmbH\nKontoauszug per 28.02.2025\nMindestzahlung\nCHF 1.00\nCHF 2.00\nCHF 3.00\nCHF 4.00\nCHF 5.00\n"
	rec := NewSwisscard(false).Parse(text, "card.pdf")
	if rec.Date != "28.02.2025" {
		t.Fatalf("date = %q, want first full date in text", rec.Date)
	}
	if rec.RawAmount != "4.00" {
		t.Fatalf("raw amount = %q", rec.RawAmount)
	}
}
