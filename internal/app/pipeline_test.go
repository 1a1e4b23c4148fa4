package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmxcli/internal/config"
	"cmxcli/internal/exporter"
	"cmxcli/internal/reports"
	"cmxcli/internal/storage"
	"cmxcli/pkg/contracts/domain"
)

const dailyFixture = `MEMO2000-A                         CME CLEARING                        PAGE 1
                        METALS ISSUES AND STOPS REPORT
RUN DATE: 08/15/2025                                 BUSINESS DATE: 08/14/2025

CONTRACT: AUGUST 2025 COMEX GOLD FUTURES                 SETTLEMENT: 2,495.60
DELIVERY DATE: 08/18/2025
FIRM NBR  ORG  FIRM NAME                              ISSUED      STOPPED
104       C    MIZUHO SECURITIES USA                  25          10
TOTAL: 25          10
MONTH TO DATE: 1,240

CONTRACT: SEPTEMBER 2025 COMEX COPPER FUTURES            SETTLEMENT: 4.5120
314       C    STONEX FINANCIAL                       12          12
TOTAL: 12          12
MONTH TO DATE: 40
`

type fakeStore struct {
	mu          sync.Mutex
	inventories []*domain.InventorySnapshot
	deliveries  []*domain.DeliveryDay
	activities  []*domain.MarketActivity
	ratios      []*domain.PaperPhysical
	scores      []*domain.RiskScore
	history     map[string]*domain.InventorySnapshot

	failDeliveries bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{history: make(map[string]*domain.InventorySnapshot)}
}

func (f *fakeStore) UpsertInventory(_ context.Context, snap *domain.InventorySnapshot) storage.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inventories = append(f.inventories, snap)
	return storage.Outcome{Entity: "inventory", Key: snap.Commodity}
}

func (f *fakeStore) UpsertDelivery(_ context.Context, day *domain.DeliveryDay) storage.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeliveries {
		return storage.Outcome{Entity: "delivery", Key: day.Commodity, Err: errors.New("constraint violation")}
	}
	f.deliveries = append(f.deliveries, day)
	return storage.Outcome{Entity: "delivery", Key: day.Commodity}
}

func (f *fakeStore) UpsertMarketActivity(_ context.Context, act *domain.MarketActivity) storage.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, act)
	return storage.Outcome{Entity: "market_activity", Key: act.Symbol}
}

func (f *fakeStore) UpsertPaperPhysical(_ context.Context, pp *domain.PaperPhysical) storage.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratios = append(f.ratios, pp)
	return storage.Outcome{Entity: "paper_physical", Key: pp.Commodity}
}

func (f *fakeStore) UpsertRiskScore(_ context.Context, score *domain.RiskScore) storage.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = append(f.scores, score)
	return storage.Outcome{Entity: "risk_score", Key: score.Commodity}
}

func (f *fakeStore) LatestInventoryBefore(_ context.Context, commodity string, _ time.Time) (*domain.InventorySnapshot, error) {
	return f.history[commodity], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPipeline(t *testing.T, store Store, reportsDir string) (*Pipeline, string) {
	t.Helper()
	outDir := t.TempDir()
	cfg := config.Default()
	cfg.Inputs.ReportsDir = reportsDir
	cfg.Inputs.StocksDir = t.TempDir()
	cfg.Output.Dir = outDir

	clock := func() time.Time { return time.Date(2025, 8, 14, 22, 0, 0, 0, time.UTC) }
	return New(cfg, store, exporter.NewWriter(outDir, clock), testLogger()), outDir
}

func TestRunPersistsAndExports(t *testing.T) {
	reportsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(reportsDir, "delivery.txt"), []byte(dailyFixture), 0644))

	store := newFakeStore()
	p, outDir := testPipeline(t, store, reportsDir)

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.deliveries, 2)
	assert.Equal(t, "Gold", store.deliveries[0].Commodity)
	assert.Equal(t, time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC), summary.ReportDate)
	assert.False(t, summary.Failed())

	var delivery StageSummary
	for _, stage := range summary.Stages {
		if stage.Stage == "persist_delivery" {
			delivery = stage
		}
	}
	assert.Equal(t, 2, delivery.Succeeded)
	assert.Zero(t, delivery.Failed)

	// No stock workbooks, so no inventory, no scores, no risk artifact.
	assert.Empty(t, store.scores)
	assert.FileExists(t, filepath.Join(outDir, "delivery.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "risk.json"))
}

func TestRunTalliesPersistenceFailures(t *testing.T) {
	reportsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(reportsDir, "delivery.txt"), []byte(dailyFixture), 0644))

	store := newFakeStore()
	store.failDeliveries = true
	p, _ := testPipeline(t, store, reportsDir)

	summary, err := p.Run(context.Background())
	require.NoError(t, err, "per-record failures never abort the batch")
	assert.True(t, summary.Failed())

	for _, stage := range summary.Stages {
		if stage.Stage == "persist_delivery" {
			assert.Equal(t, 2, stage.Failed)
			assert.Zero(t, stage.Succeeded)
		}
	}
}

func TestRunMissingDailyReportIsFatal(t *testing.T) {
	p, _ := testPipeline(t, newFakeStore(), t.TempDir())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDailyReport)
}

func TestRiskInputsDerivation(t *testing.T) {
	reportDate := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	mtd := 100.0
	in := scoringInputs{
		registeredUnits: 1000,
		paperUnits:      7200,
		mtdUnits:        &mtd,
	}

	got := riskInputs(reportDate, in)
	assert.InDelta(t, 7.2, got.PaperPhysical, 1e-9)

	// 100 units over 14 of 31 days prorates to ~221.4 a month.
	assert.InDelta(t, 1000/(100.0*31/14), got.MonthsOfCover, 1e-9)
	require.NotNil(t, got.VelocityRatio)
	assert.InDelta(t, (100.0*365/14)/1000, *got.VelocityRatio, 1e-9)
}

func TestRiskInputsNoDeliveriesThisMonth(t *testing.T) {
	reportDate := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	zero := 0.0
	got := riskInputs(reportDate, scoringInputs{registeredUnits: 1000, mtdUnits: &zero})

	// A month without draw is at least a year of cover.
	assert.InDelta(t, 12, got.MonthsOfCover, 1e-9)
	require.NotNil(t, got.VelocityRatio)
	assert.Zero(t, *got.VelocityRatio)
}

func TestRiskInputsMissingDeliveryReport(t *testing.T) {
	reportDate := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	got := riskInputs(reportDate, scoringInputs{registeredUnits: 1000})

	assert.InDelta(t, 12, got.MonthsOfCover, 1e-9)
	assert.Nil(t, got.VelocityRatio)
}

func TestAssembleScoringUsesHistoryForTrend(t *testing.T) {
	reportDate := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.history["Gold"] = &domain.InventorySnapshot{
		Commodity:  "Gold",
		ReportDate: reportDate.AddDate(0, 0, -35),
		Registered: 100,
	}

	p, _ := testPipeline(t, store, t.TempDir())

	stocks := map[string]*domain.InventorySnapshot{
		"Gold": {Commodity: "Gold", ReportDate: reportDate, Registered: 90},
	}
	market := map[string]*domain.MarketActivity{
		"GC": {Symbol: "GC", OpenInterest: 400000, YoYOpenInterest: 380952},
	}

	scores, ratios := p.assembleScoring(context.Background(), reportDate, stocks, nil, market)
	require.Len(t, scores, 1)
	require.Len(t, ratios, 1)

	gold := scores[0]
	assert.Equal(t, "Gold", gold.Commodity)
	// Registered fell 10% against the 35-day-old snapshot.
	assert.Greater(t, gold.Trend, 50, "a drawdown must score above neutral")

	ratio := ratios[0]
	assert.InDelta(t, float64(400000)*100/90, ratio.Ratio, 1e-6)
	assert.Equal(t, "HIGH", ratio.Level)
}

func TestAssembleScoringSkipsWithoutInventory(t *testing.T) {
	p, _ := testPipeline(t, newFakeStore(), t.TempDir())

	scores, ratios := p.assembleScoring(context.Background(),
		time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC), nil, nil, nil)
	assert.Empty(t, scores)
	assert.Empty(t, ratios)
}

func TestMonthToDateUnitsPrefersMTDReport(t *testing.T) {
	pr := &parsed{
		daily: &reports.DailyReport{Deliveries: []domain.DeliveryDay{
			{Commodity: "Gold", MonthToDate: 99},
		}},
		mtd: &reports.MTDReport{Contracts: []domain.DeliveryMonthToDate{
			{Commodity: "Gold", Symbol: "GC", TotalCumulative: 1240},
		}},
	}

	units := monthToDateUnits(pr)
	assert.InDelta(t, 1240*100.0, units["Gold"], 1e-9)
}

func TestMonthToDateUnitsFallsBackToDaily(t *testing.T) {
	pr := &parsed{
		daily: &reports.DailyReport{Deliveries: []domain.DeliveryDay{
			{Commodity: "Copper", MonthToDate: 40},
		}},
	}

	units := monthToDateUnits(pr)
	assert.InDelta(t, 40*25000.0, units["Copper"], 1e-9)
}

func TestAssembleMarketActivity(t *testing.T) {
	reportDate := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	settle := 3342.5
	change := 12.5

	bulletin := &reports.BulletinReport{Products: []domain.BulletinProduct{
		{
			Symbol: "GC", Name: "COMEX GOLD FUTURES",
			Contracts: []domain.ContractQuote{
				{Month: "APR26", Settle: &settle, Change: &change, GlobexVolume: 200000, OpenInterest: 300000},
			},
			TotalVolume: 250000, TotalOpenInterest: 440000, TotalOIChange: -1200,
		},
		{Symbol: "PA", Name: "PALLADIUM FUTURES", TotalVolume: 4000, TotalOpenInterest: 18000},
	}}
	volume := &reports.VolumeSummaryReport{Products: []domain.ProductVolume{
		{Symbol: "GC", Name: "GC FUT", TotalVolume: 251000, OpenInterest: 441000, OIChange: -1100, YoYVolume: 230000, YoYOpenInterest: 380000},
	}}

	got := assembleMarketActivity(reportDate, bulletin, volume)
	require.Len(t, got, 2)

	gc := got[0]
	assert.Equal(t, "GC", gc.Symbol)
	assert.Equal(t, int64(441000), gc.OpenInterest, "summary volume report is authoritative")
	assert.Equal(t, int64(380000), gc.YoYOpenInterest)
	assert.Equal(t, "APR26", gc.FrontMonth)
	require.NotNil(t, gc.Settlement)
	assert.InDelta(t, 3342.5, *gc.Settlement, 1e-9)

	pa := got[1]
	assert.Equal(t, "PA", pa.Symbol)
	assert.Equal(t, int64(18000), pa.OpenInterest)
	assert.Empty(t, pa.FrontMonth)
}

func TestTallyCountsInjectedFailures(t *testing.T) {
	outcomes := []storage.Outcome{
		{Entity: "delivery", Key: "Gold/2025-08-14"},
		{Entity: "delivery", Key: "Copper/2025-08-14", Err: errors.New("boom")},
		{Entity: "delivery", Key: "Silver/2025-08-14"},
	}

	summary := tally("persist_delivery", outcomes, testLogger())
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
}
