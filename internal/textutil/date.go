package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reShortDate  = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2}|\d{4})$`)
	reGermanDate = regexp.MustCompile(`^\s*(\d{1,2})\.\s+([A-Za-zÄÖÜäöü]+)\s+(\d{4})\s*$`)
)

// German month names, after uppercasing and folding umlauts to AE/OE/UE.
var germanMonths = map[string]int{
	"JANUAR":    1,
	"FEBRUAR":   2,
	"MAERZ":     3,
	"APRIL":     4,
	"MAI":       5,
	"JUNI":      6,
	"JULI":      7,
	"AUGUST":    8,
	"SEPTEMBER": 9,
	"OKTOBER":   10,
	"NOVEMBER":  11,
	"DEZEMBER":  12,
}

// NormalizeDate expands DD.MM.YY to DD.MM.YYYY: two-digit years up to 79 land
// in the 2000s, 80 to 99 in the 1900s. Input that is not date-shaped passes
// through unchanged. Already canonical DD.MM.YYYY input is returned as is.
//
// The utility-invoice scanner uses this rule. The statement booking scanner
// uses NormalizeDateCurrentCentury instead; the two deliberately disagree for
// years 80-99 and must not be unified.
func NormalizeDate(input string) string {
	m := reShortDate.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return input
	}
	year := m[3]
	if len(year) == 2 {
		yy, _ := strconv.Atoi(year)
		if yy <= 79 {
			year = strconv.Itoa(2000 + yy)
		} else {
			year = strconv.Itoa(1900 + yy)
		}
	}
	return fmt.Sprintf("%s.%s.%s", m[1], m[2], year)
}

// NormalizeDateCurrentCentury expands DD.MM.YY to DD.MM.YYYY, mapping every
// two-digit year into the 2000s. Non-matching input passes through unchanged.
func NormalizeDateCurrentCentury(input string) string {
	m := reShortDate.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return input
	}
	year := m[3]
	if len(year) == 2 {
		yy, _ := strconv.Atoi(year)
		year = strconv.Itoa(2000 + yy)
	}
	return fmt.Sprintf("%s.%s.%s", m[1], m[2], year)
}

// ParseGermanDate converts a spelled-out date like "6. November 2025" into
// "06.11.2025". Returns the empty string when the month name is unknown.
func ParseGermanDate(input string) string {
	m := reGermanDate.FindStringSubmatch(input)
	if m == nil {
		return ""
	}

	day, _ := strconv.Atoi(m[1])
	name := strings.ToUpper(m[2])
	name = strings.NewReplacer("Ä", "AE", "Ö", "OE", "Ü", "UE").Replace(name)

	month, ok := germanMonths[name]
	if !ok {
		return ""
	}
	year, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%02d.%02d.%d", day, month, year)
}

// ParseDMY parses DD.MM.YYYY, falling back to DD.MM.YY.
func ParseDMY(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"02.01.2006", "02.01.06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
