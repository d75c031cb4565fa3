package textutil

import "testing"

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "apostrophe thousands dot decimal", input: "1'234.50", want: "1234.5"},
		{name: "comma decimal only", input: "1234,50", want: "1234.5"},
		{name: "space thousands comma decimal", input: "1 234,50", want: "1234.5"},
		{name: "dot thousands comma decimal", input: "1.234,50", want: "1234.5"},
		{name: "nbsp thousands", input: "1 234.50", want: "1234.5"},
		{name: "negative with space", input: "- 1'234,50", want: "-1234.5"},
		{name: "plain", input: "30.00", want: "30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAmount(tc.input)
			if got == nil {
				t.Fatalf("amount is nil")
			}
			if got.String() != tc.want {
				t.Fatalf("got %s want %s", got.String(), tc.want)
			}
		})
	}
}

func TestNormalizeAmountResidue(t *testing.T) {
	for _, input := range []string{"", "abc", "12.3x", "CHF"} {
		if got := NormalizeAmount(input); got != nil {
			t.Fatalf("%q: expected nil, got %s", input, got.String())
		}
	}
}
