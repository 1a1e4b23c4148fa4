package risk

import (
	"math"
	"time"

	"cmxcli/pkg/contracts/domain"
)

// Inputs are the raw signal ratios for one commodity on one report
// date. Pointer fields are optional signals: nil means the input could
// not be derived and the subscore falls back to NeutralScore.
type Inputs struct {
	// MonthsOfCover is registered stock divided by trailing monthly
	// delivery demand.
	MonthsOfCover float64
	// PaperPhysical is open interest in physical units divided by
	// registered stock.
	PaperPhysical float64
	// TrendPct is the percent change in registered stock over the
	// trailing 30 days; nil when no old enough snapshot exists.
	TrendPct *float64
	// VelocityRatio is annualized month-to-date delivered units
	// divided by registered stock; nil when there is no delivery data
	// or no positive registered stock to divide by.
	VelocityRatio *float64
	// ActivityPct is the year-over-year percent change in open
	// interest; nil when the year-ago figure is unavailable.
	ActivityPct *float64
}

// Factor weights, in declaration order. The order doubles as the
// tie-break for the dominant factor.
var factorWeights = []struct {
	Factor domain.RiskFactor
	Weight float64
}{
	{domain.FactorCoverage, 0.25},
	{domain.FactorLeverage, 0.25},
	{domain.FactorTrend, 0.20},
	{domain.FactorVelocity, 0.15},
	{domain.FactorActivity, 0.15},
}

// Scorecard is the full scoring result for one commodity: the five
// subscores (still fractional), the rounded composite and its
// classification.
type Scorecard struct {
	Coverage   float64
	Leverage   float64
	Trend      float64
	Velocity   float64
	Activity   float64
	Composite  int
	Level      domain.StressLevel
	Dominant   domain.RiskFactor
	Commentary string
}

func (s Scorecard) subscore(f domain.RiskFactor) float64 {
	switch f {
	case domain.FactorCoverage:
		return s.Coverage
	case domain.FactorLeverage:
		return s.Leverage
	case domain.FactorTrend:
		return s.Trend
	case domain.FactorVelocity:
		return s.Velocity
	default:
		return s.Activity
	}
}

// Evaluate scores one commodity's inputs.
func Evaluate(in Inputs) Scorecard {
	card := Scorecard{
		Coverage: coverageCurve.eval(in.MonthsOfCover),
		Leverage: leverageCurve.eval(in.PaperPhysical),
		Trend:    NeutralScore,
		Velocity: NeutralScore,
		Activity: NeutralScore,
	}
	if in.TrendPct != nil {
		card.Trend = trendCurve.eval(*in.TrendPct)
	}
	if in.VelocityRatio != nil {
		card.Velocity = velocityCurve.eval(*in.VelocityRatio)
	}
	if in.ActivityPct != nil {
		card.Activity = activityCurve.eval(*in.ActivityPct)
	}

	var weighted float64
	for _, fw := range factorWeights {
		weighted += card.subscore(fw.Factor) * fw.Weight
	}
	card.Composite = int(math.Round(weighted))
	card.Level = classify(card.Composite)
	card.Dominant = dominant(card)
	card.Commentary = commentary(card)
	return card
}

func classify(composite int) domain.StressLevel {
	switch {
	case composite <= 25:
		return domain.StressLow
	case composite <= 50:
		return domain.StressModerate
	case composite <= 75:
		return domain.StressHigh
	default:
		return domain.StressExtreme
	}
}

// dominant picks the largest subscore; ties resolve to the factor
// declared first.
func dominant(card Scorecard) domain.RiskFactor {
	best := factorWeights[0].Factor
	bestScore := card.subscore(best)
	for _, fw := range factorWeights[1:] {
		if s := card.subscore(fw.Factor); s > bestScore {
			best, bestScore = fw.Factor, s
		}
	}
	return best
}

// Record converts the scorecard into the persisted form, with each
// subscore rounded to an integer.
func (s Scorecard) Record(commodity string, reportDate time.Time) domain.RiskScore {
	round := func(v float64) int { return int(math.Round(v)) }
	return domain.RiskScore{
		Commodity:  commodity,
		ReportDate: reportDate,
		Coverage:   round(s.Coverage),
		Leverage:   round(s.Leverage),
		Trend:      round(s.Trend),
		Velocity:   round(s.Velocity),
		Activity:   round(s.Activity),
		Composite:  s.Composite,
		Level:      s.Level,
		Dominant:   s.Dominant,
		Commentary: s.Commentary,
	}
}
