// Package stocks parses the exchange warehouse stock workbooks into
// inventory snapshots: per-depository registered and eligible holdings
// plus commodity totals.
package stocks

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cmxcli/internal/reports"
	"cmxcli/pkg/contracts/domain"
)

// ErrUnknownCommodity marks a workbook whose filename maps to no known
// commodity. Callers skip such files rather than failing the batch.
var ErrUnknownCommodity = errors.New("workbook matches no known commodity")

var activityDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01-02-2006",
}

// ParseWorkbook reads one warehouse stock workbook. The commodity is
// identified from the filename; the sheet layout is located by its
// header row rather than fixed cell positions, since the exchange
// shifts the preamble between releases.
func ParseWorkbook(path string, reportDate time.Time) (*domain.InventorySnapshot, error) {
	spec, ok := domain.IdentifyCommodity(filepath.Base(path))
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnknownCommodity)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := stockRows(f)
	if err != nil {
		return nil, err
	}
	return parseRows(spec, rows, reportDate)
}

// stockRows finds the sheet holding the stock table: the first sheet
// whose rows mention a depository column next to registered/eligible
// columns.
func stockRows(f *excelize.File) ([][]string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if headerRowIndex(rows) >= 0 {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no sheet with a depository stock table")
}

func headerRowIndex(rows [][]string) int {
	for i, row := range rows {
		joined := strings.ToUpper(strings.Join(row, " "))
		if !strings.Contains(joined, "DEPOSITORY") && !strings.Contains(joined, "WAREHOUSE") && !strings.Contains(joined, "LOCATION") {
			continue
		}
		if strings.Contains(joined, "REGISTERED") || strings.Contains(joined, "ELIGIBLE") || strings.Contains(joined, "TOTAL") {
			return i
		}
	}
	return -1
}

func parseRows(spec domain.CommoditySpec, rows [][]string, reportDate time.Time) (*domain.InventorySnapshot, error) {
	headerIdx := headerRowIndex(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no depository header row for %s", spec.Name)
	}

	depositoryCol, registeredCol, eligibleCol := 0, -1, -1
	for idx, cell := range rows[headerIdx] {
		upper := strings.ToUpper(cell)
		switch {
		case strings.Contains(upper, "DEPOSITORY"), strings.Contains(upper, "WAREHOUSE"), strings.Contains(upper, "LOCATION"):
			depositoryCol = idx
		case strings.Contains(upper, "REGISTERED"):
			registeredCol = idx
		case strings.Contains(upper, "ELIGIBLE"):
			eligibleCol = idx
		}
	}

	snapshot := &domain.InventorySnapshot{
		Commodity:    spec.Name,
		ReportDate:   reportDate,
		ActivityDate: activityDate(rows[:headerIdx]),
	}

	for _, row := range rows[headerIdx+1:] {
		if depositoryCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[depositoryCol])
		if name == "" || isSummaryRow(name) {
			continue
		}

		holding := domain.DepositoryHolding{Name: name}
		if registeredCol >= 0 && registeredCol < len(row) {
			holding.Registered, _ = reports.ParseAmount(row[registeredCol])
		}
		if eligibleCol >= 0 && eligibleCol < len(row) {
			holding.Eligible, _ = reports.ParseAmount(row[eligibleCol])
		}
		if holding.Registered <= 0 && holding.Eligible <= 0 {
			continue
		}
		holding.Total = holding.Registered + holding.Eligible
		snapshot.Depositories = append(snapshot.Depositories, holding)

		snapshot.Registered += holding.Registered
		snapshot.Eligible += holding.Eligible
	}
	snapshot.Total = snapshot.Registered + snapshot.Eligible

	slog.Debug("parsed warehouse stocks",
		slog.String("commodity", spec.Name),
		slog.Int("depositories", len(snapshot.Depositories)),
		slog.Float64("registered", snapshot.Registered))
	return snapshot, nil
}

func isSummaryRow(name string) bool {
	upper := strings.ToUpper(name)
	return strings.Contains(upper, "TOTAL") || strings.Contains(upper, "SUM") || strings.Contains(upper, "GRAND")
}

// activityDate scans the preamble rows above the table for the "as of"
// stamp the exchange places there. The zero time means none was found.
func activityDate(preamble [][]string) time.Time {
	for _, row := range preamble {
		joined := strings.ToUpper(strings.Join(row, " "))
		if !strings.Contains(joined, "REPORT DATE") && !strings.Contains(joined, "AS OF") {
			continue
		}
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if !strings.ContainsAny(cell, "/-") {
				continue
			}
			for _, layout := range activityDateLayouts {
				if t, err := time.Parse(layout, cell); err == nil {
					return t
				}
			}
		}
	}
	return time.Time{}
}
