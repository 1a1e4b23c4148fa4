package reports

import (
	"regexp"
	"strings"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// DailyReport is the parsed daily issues & stops report: one delivery
// record per contract that mapped to a known commodity, merged across
// page boundaries.
type DailyReport struct {
	BusinessDate time.Time            `json:"business_date"`
	RunDate      time.Time            `json:"run_date"`
	Deliveries   []domain.DeliveryDay `json:"deliveries"`
}

var (
	settlementRe   = regexp.MustCompile(`SETTLEMENT:\s*([\d,]+\.?\d*)`)
	deliveryDateRe = regexp.MustCompile(`DELIVERY DATE:\s*(\d{2}/\d{2}/\d{4})`)
	dailyTotalRe   = regexp.MustCompile(`TOTAL:\s*([\d,]+)\s+([\d,]+)`)
	monthToDateRe  = regexp.MustCompile(`MONTH TO DATE:\s*([\d,]+)`)
)

// ParseDaily parses the daily issues & stops report text. Contract
// sections whose title maps to no known commodity are skipped.
func ParseDaily(text string) *DailyReport {
	report := &DailyReport{
		BusinessDate: businessDate(text),
		RunDate:      runDate(text),
	}

	var raw []domain.DeliveryDay
	for _, section := range SplitContracts(text) {
		if day, ok := parseDailySection(section, report.BusinessDate); ok {
			raw = append(raw, day)
		}
	}
	report.Deliveries = MergeDeliveryDays(raw)
	return report
}

func parseDailySection(section Section, reportDate time.Time) (domain.DeliveryDay, bool) {
	spec, ok := domain.IdentifyCommodity(section.Header)
	if !ok {
		return domain.DeliveryDay{}, false
	}

	day := domain.DeliveryDay{
		Commodity:     spec.Name,
		Symbol:        spec.Symbol,
		ReportDate:    reportDate,
		ContractMonth: contractMonthCode(section.Header),
	}

	// The settlement prints on the contract title line itself, so the
	// scalar fields are searched across the whole section.
	full := section.Header + "\n" + section.Body
	if m := settlementRe.FindStringSubmatch(full); m != nil {
		if v, ok := ParseAmount(m[1]); ok {
			day.Settlement = &v
		}
	}
	if m := deliveryDateRe.FindStringSubmatch(full); m != nil {
		if t, ok := parseReportDate(m[1]); ok {
			day.DeliveryDate = t
		}
	}
	if m := dailyTotalRe.FindStringSubmatch(full); m != nil {
		day.DailyIssued = ParseCount(m[1])
		day.DailyStopped = ParseCount(m[2])
	}
	if m := monthToDateRe.FindStringSubmatch(full); m != nil {
		day.MonthToDate = ParseCount(m[1])
	}

	for _, line := range strings.Split(section.Body, "\n") {
		if firm, ok := parseFirmLine(line); ok {
			day.Firms = append(day.Firms, firm)
		}
	}
	return day, true
}

// parseFirmLine classifies one body line as a firm activity row: a
// three-digit clearing code, a C/H account marker, the firm name and up
// to two trailing counts (issued, then stopped). Firms with no activity
// on either side are dropped.
func parseFirmLine(line string) (domain.FirmActivity, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return domain.FirmActivity{}, false
	}
	code := fields[0]
	if len(code) != 3 || !allDigits(code) {
		return domain.FirmActivity{}, false
	}
	org := domain.FirmOrg(fields[1])
	if org != domain.OrgClearing && org != domain.OrgHouse {
		return domain.FirmActivity{}, false
	}

	rest := fields[2:]
	var counts []int
	for len(rest) > 1 && len(counts) < 2 && allDigits(strings.ReplaceAll(rest[len(rest)-1], ",", "")) {
		counts = append([]int{ParseCount(rest[len(rest)-1])}, counts...)
		rest = rest[:len(rest)-1]
	}
	name := strings.Join(rest, " ")
	if name == "" {
		return domain.FirmActivity{}, false
	}

	firm := domain.FirmActivity{Code: code, Org: org, Name: name}
	if len(counts) > 0 {
		firm.Issued = counts[0]
	}
	if len(counts) > 1 {
		firm.Stopped = counts[1]
	}
	if firm.Issued == 0 && firm.Stopped == 0 {
		return domain.FirmActivity{}, false
	}
	return firm, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
