package reports

import (
	"log/slog"
	"sort"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// Cross-page merging. A logical entity whose rows span an extraction
// boundary parses as two raw records sharing a natural key. The reduce
// below folds them into one: a populated scalar beats an empty one, two
// differing populated values resolve to the later page (continuations
// append information rather than contradict it; a real contradiction is
// logged), and child collections are unioned by the child's own key
// with the first occurrence kept.

// MergeDeliveryDays reduces raw per-page daily delivery records to one
// record per commodity, preserving first-seen order.
func MergeDeliveryDays(raw []domain.DeliveryDay) []domain.DeliveryDay {
	merged := make(map[string]*domain.DeliveryDay)
	var order []string

	for _, day := range raw {
		key := day.Commodity + "/" + day.Symbol
		existing, seen := merged[key]
		if !seen {
			d := day
			merged[key] = &d
			order = append(order, key)
			continue
		}
		existing.ContractMonth = mergeString(existing.ContractMonth, day.ContractMonth, key, "contract_month")
		existing.Settlement = mergeFloatPtr(existing.Settlement, day.Settlement, key, "settlement")
		existing.DeliveryDate = mergeTime(existing.DeliveryDate, day.DeliveryDate)
		existing.DailyIssued = mergeCount(existing.DailyIssued, day.DailyIssued, key, "daily_issued")
		existing.DailyStopped = mergeCount(existing.DailyStopped, day.DailyStopped, key, "daily_stopped")
		existing.MonthToDate = mergeCount(existing.MonthToDate, day.MonthToDate, key, "month_to_date")

		have := make(map[string]bool, len(existing.Firms))
		for _, f := range existing.Firms {
			have[f.Key()] = true
		}
		for _, f := range day.Firms {
			if !have[f.Key()] {
				existing.Firms = append(existing.Firms, f)
				have[f.Key()] = true
			}
		}
	}

	out := make([]domain.DeliveryDay, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

// MergeMonthToDate reduces raw per-page MTD records to one record per
// commodity: day rows are unioned by date, sorted, and the entity total
// re-derived from the last cumulative row.
func MergeMonthToDate(raw []domain.DeliveryMonthToDate) []domain.DeliveryMonthToDate {
	merged := make(map[string]*domain.DeliveryMonthToDate)
	var order []string

	for _, contract := range raw {
		key := contract.Commodity + "/" + contract.Symbol
		existing, seen := merged[key]
		if !seen {
			c := contract
			merged[key] = &c
			order = append(order, key)
			continue
		}
		existing.ContractMonth = mergeString(existing.ContractMonth, contract.ContractMonth, key, "contract_month")

		have := make(map[time.Time]bool, len(existing.Days))
		for _, d := range existing.Days {
			have[d.Date] = true
		}
		for _, d := range contract.Days {
			if !have[d.Date] {
				existing.Days = append(existing.Days, d)
				have[d.Date] = true
			}
		}
	}

	out := make([]domain.DeliveryMonthToDate, 0, len(order))
	for _, key := range order {
		c := merged[key]
		sort.SliceStable(c.Days, func(i, j int) bool {
			return c.Days[i].Date.Before(c.Days[j].Date)
		})
		if n := len(c.Days); n > 0 {
			c.TotalCumulative = c.Days[n-1].Cumulative
		}
		out = append(out, *c)
	}
	return out
}

func mergeCount(first, later int, key, field string) int {
	switch {
	case later == 0:
		return first
	case first == 0:
		return later
	case first != later:
		slog.Warn("conflicting values across report pages",
			slog.String("entity", key),
			slog.String("field", field),
			slog.Int("kept", later),
			slog.Int("dropped", first))
	}
	return later
}

func mergeFloatPtr(first, later *float64, key, field string) *float64 {
	switch {
	case later == nil:
		return first
	case first == nil:
		return later
	case *first != *later:
		slog.Warn("conflicting values across report pages",
			slog.String("entity", key),
			slog.String("field", field),
			slog.Float64("kept", *later),
			slog.Float64("dropped", *first))
	}
	return later
}

func mergeString(first, later, key, field string) string {
	switch {
	case later == "":
		return first
	case first == "":
		return later
	case first != later:
		slog.Warn("conflicting values across report pages",
			slog.String("entity", key),
			slog.String("field", field),
			slog.String("kept", later),
			slog.String("dropped", first))
	}
	return later
}

func mergeTime(first, later time.Time) time.Time {
	if later.IsZero() {
		return first
	}
	return later
}
