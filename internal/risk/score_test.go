package risk

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmxcli/pkg/contracts/domain"
)

func ptr(v float64) *float64 { return &v }

func TestEvaluateBalancedMarket(t *testing.T) {
	card := Evaluate(Inputs{
		MonthsOfCover: 6.5,
		PaperPhysical: 7.2,
		TrendPct:      ptr(-8),
		ActivityPct:   ptr(5),
	})

	assert.InDelta(t, 37.58, card.Coverage, 0.01)
	assert.InDelta(t, 61.0, card.Leverage, 0.01)
	assert.InDelta(t, 54.4, card.Trend, 0.01)
	assert.InDelta(t, 48.0, card.Activity, 0.01)
	// No delivery data: velocity falls back to the neutral midpoint.
	assert.InDelta(t, NeutralScore, card.Velocity, 0.01)

	assert.Equal(t, 50, card.Composite)
	assert.Equal(t, domain.StressModerate, card.Level)
	assert.Equal(t, domain.FactorLeverage, card.Dominant)
}

func TestEvaluateQuietMarket(t *testing.T) {
	card := Evaluate(Inputs{
		MonthsOfCover: 12,
		PaperPhysical: 1,
		TrendPct:      ptr(10),
		VelocityRatio: ptr(0),
		ActivityPct:   ptr(-20),
	})

	assert.Zero(t, card.Composite)
	assert.Equal(t, domain.StressLow, card.Level)
	// All subscores tie at zero; the first declared factor wins.
	assert.Equal(t, domain.FactorCoverage, card.Dominant)
	assert.Equal(t, levelRemarks[domain.StressLow], card.Commentary)
}

func TestEvaluateMissingSignalsDefaultNeutral(t *testing.T) {
	card := Evaluate(Inputs{MonthsOfCover: 6, PaperPhysical: 3})
	assert.InDelta(t, NeutralScore, card.Trend, 0.01)
	assert.InDelta(t, NeutralScore, card.Velocity, 0.01)
	assert.InDelta(t, NeutralScore, card.Activity, 0.01)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.StressLow, classify(0))
	assert.Equal(t, domain.StressLow, classify(25))
	assert.Equal(t, domain.StressModerate, classify(26))
	assert.Equal(t, domain.StressModerate, classify(50))
	assert.Equal(t, domain.StressHigh, classify(51))
	assert.Equal(t, domain.StressHigh, classify(75))
	assert.Equal(t, domain.StressExtreme, classify(76))
	assert.Equal(t, domain.StressExtreme, classify(100))
}

func TestCommentary(t *testing.T) {
	// Two signals elevated, one severe: severe wording leads.
	card := Evaluate(Inputs{
		MonthsOfCover: 0.5,
		PaperPhysical: 6,
	})
	require.GreaterOrEqual(t, card.Coverage, float64(severeThreshold))
	assert.Contains(t, card.Commentary, "well under a month")
	assert.Contains(t, card.Commentary, "several times the registered stock")

	// Nothing elevated: one generic sentence keyed to the level.
	quiet := Evaluate(Inputs{MonthsOfCover: 12, PaperPhysical: 1,
		TrendPct: ptr(10), VelocityRatio: ptr(0), ActivityPct: ptr(-20)})
	assert.Equal(t, levelRemarks[domain.StressLow], quiet.Commentary)
}

func TestRecordRoundsSubscores(t *testing.T) {
	card := Evaluate(Inputs{
		MonthsOfCover: 6.5,
		PaperPhysical: 7.2,
		TrendPct:      ptr(-8),
		ActivityPct:   ptr(5),
	})
	date := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	record := card.Record("Gold", date)

	assert.Equal(t, "Gold", record.Commodity)
	assert.Equal(t, date, record.ReportDate)
	assert.Equal(t, 38, record.Coverage)
	assert.Equal(t, 61, record.Leverage)
	assert.Equal(t, 54, record.Trend)
	assert.Equal(t, 50, record.Velocity)
	assert.Equal(t, 48, record.Activity)
	assert.Equal(t, 50, record.Composite)
	assert.Equal(t, domain.StressModerate, record.Level)
}

func TestScoreBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	inputGen := gen.Float64Range(-1e6, 1e6)

	properties.Property("all subscores and the composite stay in [0,100]", prop.ForAll(
		func(cover, lever, trend, velocity, activity float64) bool {
			card := Evaluate(Inputs{
				MonthsOfCover: cover,
				PaperPhysical: lever,
				TrendPct:      &trend,
				VelocityRatio: &velocity,
				ActivityPct:   &activity,
			})
			for _, s := range []float64{card.Coverage, card.Leverage, card.Trend, card.Velocity, card.Activity} {
				if s < 0 || s > 100 {
					return false
				}
			}
			return card.Composite >= 0 && card.Composite <= 100
		},
		inputGen, inputGen, inputGen, inputGen, inputGen,
	))

	properties.TestingRun(t)
}

func TestCompositeMonotonicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("raising the leverage ratio never lowers the composite", prop.ForAll(
		func(cover, lever, bump float64) bool {
			base := Evaluate(Inputs{MonthsOfCover: cover, PaperPhysical: lever})
			raised := Evaluate(Inputs{MonthsOfCover: cover, PaperPhysical: lever + bump})
			return raised.Composite >= base.Composite
		},
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
	))

	properties.Property("improving cover never raises the composite", prop.ForAll(
		func(cover, lever, bump float64) bool {
			base := Evaluate(Inputs{MonthsOfCover: cover, PaperPhysical: lever})
			better := Evaluate(Inputs{MonthsOfCover: cover + bump, PaperPhysical: lever})
			return better.Composite <= base.Composite
		},
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
	))

	properties.TestingRun(t)
}
