package reports

import (
	"regexp"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// MTDReport is the parsed month-to-date issues & stops report: one
// day-by-day delivery progression per contract, merged across pages.
type MTDReport struct {
	BusinessDate time.Time                    `json:"business_date"`
	RunDate      time.Time                    `json:"run_date"`
	Contracts    []domain.DeliveryMonthToDate `json:"contracts"`
}

var mtdRowRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+([\d,]+)\s+([\d,]+)`)

// ParseMonthToDate parses the month-to-date report text. A contract
// section with no daily rows is skipped (page headers repeat the
// contract title without data).
func ParseMonthToDate(text string) *MTDReport {
	report := &MTDReport{
		BusinessDate: businessDate(text),
		RunDate:      runDate(text),
	}

	var raw []domain.DeliveryMonthToDate
	for _, section := range SplitContracts(text) {
		if contract, ok := parseMTDSection(section, report.BusinessDate); ok {
			raw = append(raw, contract)
		}
	}
	report.Contracts = MergeMonthToDate(raw)
	return report
}

func parseMTDSection(section Section, reportDate time.Time) (domain.DeliveryMonthToDate, bool) {
	spec, ok := domain.IdentifyCommodity(section.Header)
	if !ok {
		return domain.DeliveryMonthToDate{}, false
	}

	contract := domain.DeliveryMonthToDate{
		Commodity:     spec.Name,
		Symbol:        spec.Symbol,
		ReportDate:    reportDate,
		ContractMonth: contractMonthCode(section.Header),
	}

	for _, m := range mtdRowRe.FindAllStringSubmatch(section.Body, -1) {
		date, ok := parseReportDate(m[1])
		if !ok {
			continue
		}
		contract.Days = append(contract.Days, domain.DayCount{
			Date:       date,
			Daily:      ParseCount(m[2]),
			Cumulative: ParseCount(m[3]),
		})
	}
	if len(contract.Days) == 0 {
		return domain.DeliveryMonthToDate{}, false
	}
	contract.TotalCumulative = contract.Days[len(contract.Days)-1].Cumulative
	return contract, true
}
