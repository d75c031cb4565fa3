package textutil

import (
	"strings"

	"github.com/shopspring/decimal"
)

var thousandsStripper = strings.NewReplacer("'", "", " ", "", " ", "")

// NormalizeAmount converts a locale-formatted amount string into a decimal.
// Thousands separators (apostrophe, space, non-breaking space) are stripped.
// When comma and dot are both present, the dot is a thousands separator and
// the comma the decimal separator; a lone comma is a decimal separator. The
// sign is preserved. Returns nil when a non-numeric residue remains.
func NormalizeAmount(input string) *decimal.Decimal {
	s := thousandsStripper.Replace(strings.TrimSpace(input))
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
