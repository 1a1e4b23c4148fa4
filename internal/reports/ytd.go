package reports

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// YTDReport is the parsed year-to-date issues & stops report: one
// product per commodity with monthly totals and the firm-level monthly
// breakdown aggregated across all of the product's pages.
type YTDReport struct {
	BusinessDate time.Time                   `json:"business_date"`
	RunDate      time.Time                   `json:"run_date"`
	Products     []domain.DeliveryYearToDate `json:"products"`
}

var (
	productLineRe = regexp.MustCompile(`(?m)^\s*PRODUCT\s+(.+)$`)
	ytdTotalsRe   = regexp.MustCompile(`TOTALS:\s*\|(.+)`)
	// Issued row: firm code, empty org cell, I marker, 13 month cells.
	ytdIssuedRe = regexp.MustCompile(`(?m)^\s*(\d{3})\s+\|\s*\|\s*I\s*\|(.+)$`)
	// Stopped row: firm name, C/H org cell, S marker, 13 month cells.
	ytdStoppedRe = regexp.MustCompile(`(?m)^(.+?)\s*\|([CH])\|\s*S\s*\|(.+)$`)
)

// ParseYearToDate parses the year-to-date report text. Pages are
// grouped by the commodity named on their PRODUCT line; pages whose
// product maps to no known commodity are skipped.
func ParseYearToDate(text string) *YTDReport {
	report := &YTDReport{
		BusinessDate: businessDate(text),
		RunDate:      runDate(text),
	}

	type productPages struct {
		spec  domain.CommoditySpec
		name  string
		pages []string
	}
	grouped := make(map[string]*productPages)
	var order []string

	for _, page := range SplitPages(text) {
		name, ok := productName(page)
		if !ok {
			continue
		}
		spec, ok := domain.IdentifyCommodity(name)
		if !ok {
			continue
		}
		key := spec.Symbol
		if _, seen := grouped[key]; !seen {
			grouped[key] = &productPages{spec: spec, name: name}
			order = append(order, key)
		}
		grouped[key].pages = append(grouped[key].pages, page)
	}

	for _, key := range order {
		g := grouped[key]
		report.Products = append(report.Products, parseProductPages(g.spec, g.name, g.pages, report.BusinessDate))
	}
	return report
}

// productName finds the page's PRODUCT line, skipping the PRODUCT
// GROUP: classification line that precedes it.
func productName(page string) (string, bool) {
	for _, m := range productLineRe.FindAllStringSubmatch(page, -1) {
		name := strings.TrimSpace(m[1])
		if strings.HasPrefix(name, "GROUP:") {
			continue
		}
		return name, true
	}
	return "", false
}

func parseProductPages(spec domain.CommoditySpec, name string, pages []string, reportDate time.Time) domain.DeliveryYearToDate {
	product := domain.DeliveryYearToDate{
		Commodity:   spec.Name,
		Symbol:      spec.Symbol,
		ProductName: name,
		ReportDate:  reportDate,
	}

	combined := strings.Join(pages, "\n")
	if m := ytdTotalsRe.FindStringSubmatch(combined); m != nil {
		product.MonthlyTotals = parseMonthCells(m[1])
	}

	var firms []domain.FirmYearToDate
	for _, page := range pages {
		for _, block := range SplitFirmBlocks(page) {
			if strings.Contains(block, "TOTALS:") || strings.Contains(block, "FIRM NBR") {
				continue
			}
			issued := ytdIssuedRe.FindStringSubmatch(block)
			stopped := ytdStoppedRe.FindStringSubmatch(block)
			if issued == nil || stopped == nil {
				continue
			}
			firms = append(firms, domain.FirmYearToDate{
				Code:    issued[1],
				Org:     domain.FirmOrg(stopped[2]),
				Name:    strings.TrimSpace(stopped[1]),
				Issued:  parseMonthCells(issued[2]),
				Stopped: parseMonthCells(stopped[3]),
			})
		}
	}
	product.Firms = aggregateFirms(firms)
	return product
}

// parseMonthCells reads the 13 pipe-delimited month cells of a YTD row
// into the month slots. Blank or dashed cells stay zero.
func parseMonthCells(row string) domain.MonthlyCounts {
	var counts domain.MonthlyCounts
	for i, cell := range strings.Split(row, "|") {
		if i >= domain.MonthSlots {
			break
		}
		counts.Set(i, ParseCount(cell))
	}
	return counts
}

// aggregateFirms folds duplicate firm rows (the same firm repeated on a
// continuation page) into one entry per code+org. A non-zero month cell
// wins over a zero one; zero cells never overwrite. The result is
// sorted by total activity descending.
func aggregateFirms(firms []domain.FirmYearToDate) []domain.FirmYearToDate {
	merged := make(map[string]*domain.FirmYearToDate)
	var order []string

	for _, firm := range firms {
		key := firm.Key()
		existing, seen := merged[key]
		if !seen {
			f := firm
			merged[key] = &f
			order = append(order, key)
			continue
		}
		for i := 0; i < domain.MonthSlots; i++ {
			if v := firm.Issued.At(i); v > 0 {
				existing.Issued.Set(i, v)
			}
			if v := firm.Stopped.At(i); v > 0 {
				existing.Stopped.Set(i, v)
			}
		}
	}

	out := make([]domain.FirmYearToDate, 0, len(order))
	for _, key := range order {
		f := merged[key]
		f.TotalIssued = f.Issued.Sum()
		f.TotalStopped = f.Stopped.Sum()
		f.TotalActivity = f.TotalIssued + f.TotalStopped
		out = append(out, *f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalActivity > out[j].TotalActivity
	})
	return out
}
