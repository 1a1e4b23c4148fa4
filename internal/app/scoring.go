package app

import (
	"context"
	"log/slog"
	"time"

	"cmxcli/internal/risk"
	"cmxcli/pkg/contracts/domain"
)

// trendLookback is the minimum age of the historical snapshot used for
// the inventory trend signal.
const trendLookback = 30 * 24 * time.Hour

// scoringInputs holds the per-commodity raw signals assembled from the
// day's reports before curve evaluation.
type scoringInputs struct {
	registeredUnits float64
	openInterest    int64
	paperUnits      float64
	mtdUnits        *float64
	trendPct        *float64
	activityPct     *float64
}

// assembleScoring derives the five risk signals for every primary
// commodity with a current inventory snapshot, then evaluates the
// curves. Commodities without registered inventory are skipped: with
// no physical denominator none of the ratios are defined.
func (p *Pipeline) assembleScoring(
	ctx context.Context,
	reportDate time.Time,
	stocks map[string]*domain.InventorySnapshot,
	mtdUnits map[string]float64,
	market map[string]*domain.MarketActivity,
) ([]domain.RiskScore, []*domain.PaperPhysical) {
	var scores []domain.RiskScore
	var ratios []*domain.PaperPhysical

	for _, spec := range domain.PrimaryCommodities() {
		snap := stocks[spec.Name]
		if snap == nil {
			p.logger.Warn("no inventory snapshot, skipping stress score",
				slog.String("commodity", spec.Name))
			continue
		}
		registeredUnits := spec.ContractUnits(snap.Registered)
		if registeredUnits <= 0 {
			p.logger.Warn("no registered inventory, skipping stress score",
				slog.String("commodity", spec.Name))
			continue
		}

		in := scoringInputs{registeredUnits: registeredUnits}
		if units, ok := mtdUnits[spec.Name]; ok {
			in.mtdUnits = &units
		}
		if act := market[spec.Symbol]; act != nil {
			in.openInterest = act.OpenInterest
			in.paperUnits = float64(act.OpenInterest) * spec.ContractSize
			if act.YoYOpenInterest > 0 {
				pct := 100 * float64(act.OpenInterest-act.YoYOpenInterest) / float64(act.YoYOpenInterest)
				in.activityPct = &pct
			}
		}
		in.trendPct = p.inventoryTrend(ctx, spec.Name, reportDate, snap.Registered)

		card := risk.Evaluate(riskInputs(reportDate, in))
		scores = append(scores, card.Record(spec.Name, reportDate))

		ratio := 0.0
		if in.paperUnits > 0 {
			ratio = in.paperUnits / registeredUnits
		}
		ratios = append(ratios, &domain.PaperPhysical{
			Commodity:       spec.Name,
			Symbol:          spec.Symbol,
			ReportDate:      reportDate,
			OpenInterest:    in.openInterest,
			PaperUnits:      in.paperUnits,
			RegisteredUnits: registeredUnits,
			Ratio:           ratio,
			Level:           domain.LeverageLevel(ratio),
		})
	}
	return scores, ratios
}

// riskInputs converts raw signals into curve inputs. The month-to-date
// delivery pace is prorated to a full month for cover and annualized
// for velocity; a month with no deliveries counts as at least a year
// of cover and zero velocity, while a missing delivery report leaves
// both signals neutral.
func riskInputs(reportDate time.Time, in scoringInputs) risk.Inputs {
	out := risk.Inputs{
		PaperPhysical: in.paperUnits / in.registeredUnits,
		TrendPct:      in.trendPct,
		ActivityPct:   in.activityPct,
		MonthsOfCover: 12,
	}

	if in.mtdUnits != nil {
		elapsed := float64(reportDate.Day())
		daysInMonth := float64(daysIn(reportDate))
		if units := *in.mtdUnits; units > 0 && elapsed > 0 {
			monthlyPace := units * daysInMonth / elapsed
			cover := in.registeredUnits / monthlyPace
			out.MonthsOfCover = cover

			annualPace := units * 365 / elapsed
			velocity := annualPace / in.registeredUnits
			out.VelocityRatio = &velocity
		} else {
			zero := 0.0
			out.VelocityRatio = &zero
		}
	}
	return out
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// inventoryTrend fetches the snapshot at least thirty days old and
// returns the registered-stock percentage change, or nil when no
// usable history exists.
func (p *Pipeline) inventoryTrend(ctx context.Context, commodity string, reportDate time.Time, registeredNow float64) *float64 {
	cutoff := reportDate.Add(-trendLookback)
	prior, err := p.store.LatestInventoryBefore(ctx, commodity, cutoff)
	if err != nil {
		p.logger.Warn("failed to fetch inventory history",
			slog.String("commodity", commodity),
			slog.String("error", err.Error()))
		return nil
	}
	if prior == nil || prior.Registered <= 0 {
		return nil
	}
	pct := 100 * (registeredNow - prior.Registered) / prior.Registered
	return &pct
}
