package reports

import (
	"regexp"
	"strings"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// VolumeSummaryReport is the parsed summary volume & open interest
// bulletin (section 02B): per-instrument volume and open interest with
// year-ago comparisons, plus the metals group totals.
type VolumeSummaryReport struct {
	BulletinNumber int                    `json:"bulletin_number"`
	Date           time.Time              `json:"date"`
	Products       []domain.ProductVolume `json:"products"`
	Totals         domain.GroupVolume     `json:"totals"`
}

// summaryInstruments lists the instrument lines extracted from the
// metals section, in report order.
var summaryInstruments = []struct {
	Symbol string
	Name   string
}{
	{"MGC", "MICRO GOLD FUTURES"},
	{"GC", "COMEX GOLD FUTURES"},
	{"SIL", "MICRO SILVER FUTURES"},
	{"1OZ", "1 OUNCE GOLD FUTURES"},
	{"HG", "COMEX COPPER FUTURES"},
	{"SI", "COMEX SILVER FUTURES"},
	{"MHG", "COMEX MICRO COPPER FUTURES"},
	{"PL", "NYMEX PLATINUM FUTURES"},
	{"QO", "E-MINI GOLD FUTURES"},
	{"PA", "NYMEX PALLADIUM FUTURES"},
	{"QI", "E-MINI SILVER FUTURES"},
	{"ALI", "COMEX PHYSICAL ALUMINUM FUTURES"},
	{"HGS", "COMEX COPPER SWAP FUTURES"},
	{"QC", "COMEX E-MINI COPPER FUTURES"},
}

var groupTotalsRe = regexp.MustCompile(`(?i)FUTURES & OPTIONS -\s*\n\s*METALS\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s+([\d,]+)\s*([+-])\s*([\d,]+)\s+([\d,]+)\s+([\d,]+)`)

// ParseVolumeSummary parses the summary bulletin text. Instrument lines
// that do not carry the full column set are skipped.
func ParseVolumeSummary(text string) *VolumeSummaryReport {
	report := &VolumeSummaryReport{}
	report.BulletinNumber, report.Date = bulletinHeader(text)

	section := metalsSection(text)
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, inst := range summaryInstruments {
			if !strings.HasPrefix(trimmed, inst.Symbol+" ") {
				continue
			}
			if product, ok := parseSummaryLine(trimmed, inst.Symbol, inst.Name); ok {
				report.Products = append(report.Products, product)
			}
			break
		}
	}

	if m := groupTotalsRe.FindStringSubmatch(text); m != nil {
		report.Totals = domain.GroupVolume{
			Volume:          int64(ParseCount(m[3])),
			OpenInterest:    int64(ParseCount(m[4])),
			OIChange:        ParseSigned(m[5] + m[6]),
			YoYVolume:       int64(ParseCount(m[7])),
			YoYOpenInterest: int64(ParseCount(m[8])),
		}
	}
	return report
}

// metalsSection narrows the text to the metals futures & options block
// so a records appendix further down cannot shadow instrument lines.
func metalsSection(text string) string {
	start := strings.Index(text, "METALS FUTURES & OPTIONS")
	if start < 0 {
		return ""
	}
	section := text[start:]
	if end := strings.Index(section, `VOLUME AND OPEN INTEREST "RECORDS"`); end >= 0 {
		section = section[:end]
	}
	return section
}

// parseSummaryLine reads one instrument line. The open-interest change
// sign prints as a detached token, which splits the numeric columns
// into two runs: the run before the sign ends with total volume and
// open interest, the run after starts with the OI change magnitude and
// ends with the year-ago volume and open interest.
func parseSummaryLine(line, symbol, name string) (domain.ProductVolume, bool) {
	fields := strings.Fields(line)
	signIdx := -1
	for i, f := range fields {
		if f == "+" || f == "-" {
			signIdx = i
			break
		}
	}
	if signIdx < 0 {
		return domain.ProductVolume{}, false
	}

	var before, after []int64
	for _, f := range fields[:signIdx] {
		if allDigits(strings.ReplaceAll(f, ",", "")) {
			before = append(before, int64(ParseCount(f)))
		}
	}
	for _, f := range fields[signIdx+1:] {
		if allDigits(strings.ReplaceAll(f, ",", "")) {
			after = append(after, int64(ParseCount(f)))
		}
	}
	if len(before) < 2 || len(after) < 3 {
		return domain.ProductVolume{}, false
	}

	sign := int64(1)
	if fields[signIdx] == "-" {
		sign = -1
	}
	return domain.ProductVolume{
		Symbol:          symbol,
		Name:            name,
		GlobexVolume:    before[0],
		TotalVolume:     before[len(before)-2],
		OpenInterest:    before[len(before)-1],
		OIChange:        sign * after[0],
		YoYVolume:       after[len(after)-2],
		YoYOpenInterest: after[len(after)-1],
	}, true
}
