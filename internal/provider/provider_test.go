package provider

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/willi202202/rechnungen-sort/internal/config"
)

const szkbHeader = "Schwyzer Kantonalbank\nPrivatkonto 812186-0560\n"

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestMatchesKeywords(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{"all present", "Swisscom (Schweiz) AG ... Rechnungstotal in CHF inkl. MWST", []string{"Swisscom (Schweiz) AG", "Rechnungstotal in CHF inkl. MWST"}, true},
		{"one missing", "Swisscom (Schweiz) AG", []string{"Swisscom (Schweiz) AG", "Rechnungstotal in CHF inkl. MWST"}, false},
		{"case insensitive", "SWISSCOM (SCHWEIZ) AG", []string{"Swisscom (Schweiz) AG"}, true},
		{"nbsp folded", "Swisscom (Schweiz) AG", []string{"Swisscom (Schweiz) AG"}, true},
		{"empty keyword set never matches", "anything", nil, false},
	}
	for _, tc := range cases {
		if got := matchesKeywords(tc.text, tc.keywords); got != tc.want {
			t.Fatalf("%s: matchesKeywords=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestRegistryClassify(t *testing.T) {
	reg := NewRegistry(config.Config{})

	p := reg.Classify(szkbHeader)
	if p == nil || p.Name() != "SZKB_Privatkonto" {
		t.Fatalf("expected SZKB_Privatkonto, got %v", p)
	}

	if p := reg.Classify("some unrelated document"); p != nil {
		t.Fatalf("expected no provider, got %s", p.Name())
	}
}

func TestRegistryClassifyFirstMatchWins(t *testing.T) {
	// A document satisfying two keyword sets resolves to the earlier
	// provider in registration order, deterministically.
	text := szkbHeader + "Swisscom (Schweiz) AG\nRechnungstotal in CHF inkl. MWST 10.00\n"
	reg := NewRegistry(config.Config{})
	for i := 0; i < 5; i++ {
		p := reg.Classify(text)
		if p == nil || p.Name() != "SZKB_Privatkonto" {
			t.Fatalf("run %d: expected SZKB_Privatkonto, got %v", i, p)
		}
	}
}

func TestRegistryByName(t *testing.T) {
	reg := NewRegistry(config.Config{})
	if p := reg.ByName("Strom"); p == nil || p.Name() != "Strom" {
		t.Fatalf("ByName(Strom) = %v", p)
	}
	if p := reg.ByName("nope"); p != nil {
		t.Fatalf("ByName(nope) = %v, want nil", p)
	}
}
