package provider

import "testing"

func TestSZKBParse(t *testing.T) {
	p := NewSZKB()
	text := szkbHeader +
		"Kontoauszug vom 01.04.2025 bis 30.06.2025\n" +
		"15.05.2025 Gutschrift 1'000.00\n" +
		"Schlusssaldo CHF 12'345.67\n"

	rec := p.Parse(text, "konto.pdf")
	if rec.FromDate != "01.04.2025" || rec.ToDate != "30.06.2025" {
		t.Fatalf("period = %q..%q", rec.FromDate, rec.ToDate)
	}
	if rec.Date != rec.ToDate {
		t.Fatalf("date = %q, want period end", rec.Date)
	}
	if rec.RawAmount != "12'345.67" {
		t.Fatalf("raw amount = %q", rec.RawAmount)
	}
	if !rec.Amount.Equal(mustDec(t, "12345.67")) {
		t.Fatalf("amount = %s", rec.Amount)
	}
}

func TestSZKBLastSaldoLineWins(t *testing.T) {
	text := "Schlusssaldo CHF 100.00\nUmsätze\nSchlusssaldo CHF 200.00\n"
	if got := findSaldo(text); got != "200.00" {
		t.Fatalf("saldo = %q, want the last keyword line", got)
	}
}

func TestSZKBSaldoFallback(t *testing.T) {
	// No keyword line at all: the text-wide scan picks the last
	// "Saldo..." occurrence.
	text := "Saldovortrag CHF 50.00\nneuer Saldo CHF 75.25\n"
	if got := findSaldo(text); got != "75.25" {
		t.Fatalf("saldo = %q", got)
	}

	if got := findSaldo("kein Kontostand hier"); got != "" {
		t.Fatalf("saldo = %q, want empty", got)
	}
}

func TestSZKBNegativeSaldo(t *testing.T) {
	text := "Schlusssaldo -CHF 1'500.00\n"
	rec := NewSZKB().Parse(text, "konto.pdf")
	if rec.RawAmount != "1'500.00" {
		t.Fatalf("raw amount = %q", rec.RawAmount)
	}
}
