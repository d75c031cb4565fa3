package provider

import "testing"

func TestSwisscomParse(t *testing.T) {
	p := NewSwisscom()

	text := "Swisscom (Schweiz) AG\n" +
		"Datum: 6. November 2025\n" +
		"Rechnungstotal in CHF inkl. MWST 1'234.50\n"

	rec := p.Parse(text, "invoice.pdf")
	if rec.Date != "06.11.2025" {
		t.Fatalf("date = %q", rec.Date)
	}
	if rec.RawAmount != "1'234.50" {
		t.Fatalf("raw amount = %q", rec.RawAmount)
	}
	if !rec.Amount.Equal(mustDec(t, "1234.50")) {
		t.Fatalf("amount = %s", rec.Amount)
	}
	if rec.File != "invoice.pdf" {
		t.Fatalf("file = %q", rec.File)
	}
}

func TestSwisscomAmountFallbacks(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"ebill block", "Rechnungsbetrag\ninkl. MWST\nCHF\n89.90\n", "89.90"},
		{"payment part", "Währung CHF Betrag 45.00\n", "45.00"},
		{"summary beats ebill", "Rechnungstotal in CHF inkl. MWST 100.00\nRechnungsbetrag inkl. MWST CHF 89.90\n", "100.00"},
	}
	for _, tc := range cases {
		if got := findSwisscomAmount(tc.text); got != tc.want {
			t.Fatalf("%s: amount = %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestSwisscomParseNoAmount(t *testing.T) {
	p := NewSwisscom()
	rec := p.Parse("Datum: 1. Januar 2025\nkein Betrag hier\n", "x.pdf")
	if rec.RawAmount != "0.00" {
		t.Fatalf("raw amount = %q, want synthesized 0.00", rec.RawAmount)
	}
	if !rec.Amount.IsZero() {
		t.Fatalf("amount = %s, want zero", rec.Amount)
	}
	if rec.Date != "01.01.2025" {
		t.Fatalf("date = %q", rec.Date)
	}
}
