// Package strom parses multi-object electricity invoices and independently
// recomputes each object's billed total from the printed tariff rates.
package strom

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/willi202202/rechnungen-sort/internal"
	"github.com/willi202202/rechnungen-sort/internal/textutil"
)

// ProviderKeyword recognizes invoices of the municipal utility.
const ProviderKeyword = "Elektroversorgung"

var (
	reInvoiceNumber = regexp.MustCompile(`Rechnungsnummer\s+([\d']+)`)
	reObjectName    = regexp.MustCompile(`Objekt:\s*(.+)`)

	// Consumption rows: a tariff line only counts when the trailing kWh
	// unit token is present.
	reHTConsumption = regexp.MustCompile(`Hochtarif Energie\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s*kWh`)
	reNTConsumption = regexp.MustCompile(`Niedertarif Energie\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s*kWh`)

	// Rate rows in the cost section: "<label> <kWh figure> kWh <rate>".
	reHTEnergyRate  = regexp.MustCompile(`Hochtarif Energie\s+[\d']+\s*kWh\s+([0-9]+\.\d+)`)
	reNTEnergyRate  = regexp.MustCompile(`Niedertarif Energie\s+[\d']+\s*kWh\s+([0-9]+\.\d+)`)
	reHTNetworkRate = regexp.MustCompile(`Hochtarif Netznutzung\s+[\d']+\s*kWh\s+([0-9]+\.\d+)`)
	reNTNetworkRate = regexp.MustCompile(`Niedertarif Netznutzung\s+[\d']+\s*kWh\s+([0-9]+\.\d+)`)

	reBaseFeeLine = regexp.MustCompile(`Grundpreis pro Messstelle.*`)
	reDecimalNum  = regexp.MustCompile(`[0-9']+\.\d+`)

	// Cost-table rows end in the triple "<excl> <percent> <incl>".
	reVATTriple = regexp.MustCompile(`([0-9']+[.,]\d{2})\s+([0-9]{1,2}[.,]\d{1,2})\s+([0-9']+[.,]\d{2})\s*$`)

	reStatedTotal = regexp.MustCompile(`Total Objekt\s+([0-9']+\.\d{2})`)
)

// VAT plausibility window in percent. A trailing triple whose middle figure
// falls outside it is the wrong number, not a VAT rate.
var (
	vatMin = decimal.NewFromInt(5)
	vatMax = decimal.NewFromInt(15)
)

// ParseDocument extracts the invoice number from the first page and one
// object row per page carrying an "Objekt:" label.
func ParseDocument(pages []string, filename string) (string, []internal.StromObjectRow) {
	invoiceNumber := ""
	if len(pages) > 0 {
		if m := reInvoiceNumber.FindStringSubmatch(pages[0]); m != nil {
			invoiceNumber = m[1]
		}
	}

	var rows []internal.StromObjectRow
	for _, page := range pages {
		if !strings.Contains(page, "Objekt:") {
			continue
		}
		if row := ParseObjectPage(page, invoiceNumber, filename); row != nil {
			rows = append(rows, *row)
		}
	}
	return invoiceNumber, rows
}

// ParseObjectPage parses one page-equivalent segment holding a single billed
// object. Fields that fail to parse stay nil; the verifier degrades them to
// zero, so a garbled page still yields a result with a telling delta instead
// of aborting. Returns nil only when the page has no object label or no
// consumption section at all.
func ParseObjectPage(text, invoiceNumber, filename string) *internal.StromObjectRow {
	m := reObjectName.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	row := internal.StromObjectRow{
		InvoiceNumber: invoiceNumber,
		Object:        strings.TrimSpace(m[1]),
		File:          filename,
	}

	consumption, ok := sectionBetween(text, "Bezugsermittlung", "Bezug Ansatz", "Betragsermittlung")
	if !ok {
		return nil
	}
	parseConsumption(consumption, &row)

	cost, _ := sectionBetween(text, "Betragsermittlung", "Abgaben")
	row.VATRatePercent = parseVATRate(cost)
	parseRates(cost, &row)
	parseBaseFee(cost, &row)

	levies, _ := sectionBetween(text, "Abgaben", "Total Objekt")
	row.SystemServicesRate = parseLevy(levies, "Systemdienstleistungen")
	row.FeedInRate = parseLevy(levies, "Kostendeckende Einspeisevergütung")
	row.MunicipalRate = parseLevy(levies, "Abgabe an die Gemeinde")
	row.ReserveRate = parseLevy(levies, "Stromreserve")

	if m := reStatedTotal.FindStringSubmatch(text); m != nil {
		row.StatedTotal = textutil.NormalizeAmount(m[1])
	}

	return &row
}

// sectionBetween cuts the text from the start heading up to the first end
// heading that can be found after it, trying the end headings in order. With
// no end heading present the section runs to the end of the text.
func sectionBetween(text, start string, ends ...string) (string, bool) {
	from := strings.Index(text, start)
	if from == -1 {
		return "", false
	}
	rest := text[from:]
	for _, end := range ends {
		if idx := strings.Index(rest[len(start):], end); idx != -1 {
			return rest[:len(start)+idx], true
		}
	}
	return rest, true
}

func parseConsumption(section string, row *internal.StromObjectRow) {
	if m := reHTConsumption.FindStringSubmatch(section); m != nil {
		row.PeriodFrom = textutil.NormalizeDate(m[1])
		row.PeriodTo = textutil.NormalizeDate(m[2])
		row.HTReadingOld = textutil.NormalizeAmount(m[4])
		row.HTReadingNew = textutil.NormalizeAmount(m[5])
		// Consumption is taken as printed, not new minus old.
		row.HTConsumptionKWh = textutil.NormalizeAmount(m[6])
	}
	if m := reNTConsumption.FindStringSubmatch(section); m != nil {
		if row.PeriodFrom == "" {
			row.PeriodFrom = textutil.NormalizeDate(m[1])
			row.PeriodTo = textutil.NormalizeDate(m[2])
		}
		row.NTReadingOld = textutil.NormalizeAmount(m[3])
		row.NTReadingNew = textutil.NormalizeAmount(m[4])
		row.NTConsumptionKWh = textutil.NormalizeAmount(m[5])
	}
}

func parseRates(section string, row *internal.StromObjectRow) {
	if m := reHTEnergyRate.FindStringSubmatch(section); m != nil {
		row.HTEnergyRate = textutil.NormalizeAmount(m[1])
	}
	if m := reNTEnergyRate.FindStringSubmatch(section); m != nil {
		row.NTEnergyRate = textutil.NormalizeAmount(m[1])
	}
	if m := reHTNetworkRate.FindStringSubmatch(section); m != nil {
		row.HTNetworkRate = textutil.NormalizeAmount(m[1])
	}
	if m := reNTNetworkRate.FindStringSubmatch(section); m != nil {
		row.NTNetworkRate = textutil.NormalizeAmount(m[1])
	}
}

// parseVATRate scans cost-table rows for the trailing "<excl> <percent>
// <incl>" triple. The percent is only accepted inside the plausibility
// window; values outside it are discarded entirely, never clamped.
func parseVATRate(section string) *decimal.Decimal {
	for _, raw := range strings.Split(section, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := reVATTriple.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := textutil.NormalizeAmount(m[2])
		if val == nil {
			continue
		}
		if val.Cmp(vatMin) >= 0 && val.Cmp(vatMax) <= 0 {
			rounded := val.Round(2)
			return &rounded
		}
	}
	return nil
}

// parseBaseFee reads the per-metering-point base fee line. The fee counts as
// billed only when a second figure on the line is present and strictly
// positive; the rate alone means the fee was waived this period.
func parseBaseFee(section string, row *internal.StromObjectRow) {
	line := reBaseFeeLine.FindString(section)
	if line == "" {
		return
	}
	nums := reDecimalNum.FindAllString(line, -1)
	if len(nums) == 0 {
		return
	}
	row.BaseFeeRate = textutil.NormalizeAmount(nums[0])
	if len(nums) >= 2 {
		if billed := textutil.NormalizeAmount(nums[1]); billed != nil && billed.IsPositive() {
			row.BaseFeeBilled = true
		}
	}
}

func parseLevy(section, label string) *decimal.Decimal {
	re := regexp.MustCompile(regexp.QuoteMeta(label) + `\s+[\d']+\s*kWh\s+([0-9]+\.\d+)`)
	m := re.FindStringSubmatch(section)
	if m == nil {
		return nil
	}
	return textutil.NormalizeAmount(m[1])
}
