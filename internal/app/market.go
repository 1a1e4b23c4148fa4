package app

import (
	"time"

	"cmxcli/internal/reports"
	"cmxcli/pkg/contracts/domain"
)

// assembleMarketActivity joins the summary volume report with the
// bulletin's per-contract rows into one consolidated record per
// product. The summary supplies volume, open interest and year-ago
// columns; the bulletin supplies the front month and its settlement.
// Products appearing in only one source still produce a record.
func assembleMarketActivity(reportDate time.Time, bulletin *reports.BulletinReport, volume *reports.VolumeSummaryReport) []*domain.MarketActivity {
	bySymbol := make(map[string]*domain.BulletinProduct)
	if bulletin != nil {
		for i := range bulletin.Products {
			p := &bulletin.Products[i]
			bySymbol[p.Symbol] = p
		}
	}

	var out []*domain.MarketActivity
	seen := make(map[string]bool)

	if volume != nil {
		for _, pv := range volume.Products {
			act := &domain.MarketActivity{
				Symbol:          pv.Symbol,
				Name:            pv.Name,
				ReportDate:      reportDate,
				TotalVolume:     pv.TotalVolume,
				OpenInterest:    pv.OpenInterest,
				OIChange:        pv.OIChange,
				YoYVolume:       pv.YoYVolume,
				YoYOpenInterest: pv.YoYOpenInterest,
			}
			if bp, ok := bySymbol[pv.Symbol]; ok {
				applyFrontMonth(act, bp)
			}
			out = append(out, act)
			seen[pv.Symbol] = true
		}
	}

	if bulletin != nil {
		for i := range bulletin.Products {
			bp := &bulletin.Products[i]
			if seen[bp.Symbol] {
				continue
			}
			act := &domain.MarketActivity{
				Symbol:       bp.Symbol,
				Name:         bp.Name,
				ReportDate:   reportDate,
				TotalVolume:  bp.TotalVolume,
				OpenInterest: bp.TotalOpenInterest,
				OIChange:     bp.TotalOIChange,
			}
			applyFrontMonth(act, bp)
			out = append(out, act)
		}
	}
	return out
}

func applyFrontMonth(act *domain.MarketActivity, bp *domain.BulletinProduct) {
	front := bp.FrontMonth()
	if front == nil {
		return
	}
	act.FrontMonth = front.Month
	act.Settlement = front.Settle
	act.Change = front.Change
}
