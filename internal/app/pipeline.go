package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cmxcli/internal/config"
	"cmxcli/internal/exporter"
	"cmxcli/internal/reports"
	"cmxcli/internal/stocks"
	"cmxcli/internal/storage"
	"cmxcli/pkg/contracts/domain"
)

// Pipeline runs one batch over the day's report files.
type Pipeline struct {
	cfg    *config.Config
	store  Store
	writer *exporter.Writer
	logger *slog.Logger
}

// New wires a pipeline from its dependencies.
func New(cfg *config.Config, store Store, writer *exporter.Writer, logger *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, writer: writer, logger: logger}
}

// parsed collects the typed reports produced by the parse stage.
type parsed struct {
	daily    *reports.DailyReport
	mtd      *reports.MTDReport
	ytd      *reports.YTDReport
	bulletin *reports.BulletinReport
	volume   *reports.VolumeSummaryReport
	stocks   []*domain.InventorySnapshot
	skipped  int
}

// Run executes the batch. It returns an error only for the fatal
// conditions; per-record failures are tallied in the summary.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.NewString()
	logger := p.logger.With(slog.String("run_id", runID))
	logger.Info("batch starting",
		slog.String("reports_dir", p.cfg.Inputs.ReportsDir),
		slog.String("stocks_dir", p.cfg.Inputs.StocksDir))

	in, err := loadInputs(p.cfg.Inputs, logger)
	if err != nil {
		return nil, err
	}

	pr, reportDate, err := p.parse(ctx, in, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("reports parsed",
		slog.Time("report_date", reportDate),
		slog.Int("deliveries", len(pr.daily.Deliveries)),
		slog.Int("stock_snapshots", len(pr.stocks)),
		slog.Int("skipped", pr.skipped))

	summary := &RunSummary{RunID: runID, ReportDate: reportDate}
	summary.Stages = append(summary.Stages, StageSummary{
		Stage:     "parse",
		Succeeded: parsedReportCount(pr),
		Skipped:   pr.skipped,
	})

	activity := assembleMarketActivity(reportDate, pr.bulletin, pr.volume)
	activityBySymbol := make(map[string]*domain.MarketActivity, len(activity))
	for _, act := range activity {
		activityBySymbol[act.Symbol] = act
	}

	stocksByName := make(map[string]*domain.InventorySnapshot, len(pr.stocks))
	for _, snap := range pr.stocks {
		stocksByName[snap.Commodity] = snap
	}

	scores, ratios := p.assembleScoring(ctx, reportDate, stocksByName, monthToDateUnits(pr), activityBySymbol)
	logger.Info("stress scores computed", slog.Int("commodities", len(scores)))

	summary.Stages = append(summary.Stages, p.persist(ctx, pr, activity, scores, ratios, logger)...)
	summary.Stages = append(summary.Stages, p.export(reportDate, pr, scores, ratios, logger))

	for _, stage := range summary.Stages {
		logger.Info("stage summary",
			slog.String("stage", stage.Stage),
			slog.Int("succeeded", stage.Succeeded),
			slog.Int("failed", stage.Failed),
			slog.Int("skipped", stage.Skipped))
	}
	logger.Info("batch finished", slog.Bool("had_failures", summary.Failed()))
	return summary, nil
}

// parse runs the pure report parsers concurrently. The daily report is
// parsed first because its business date anchors every other record.
func (p *Pipeline) parse(ctx context.Context, in *inputs, logger *slog.Logger) (*parsed, time.Time, error) {
	pr := &parsed{daily: reports.ParseDaily(in.daily)}

	reportDate := pr.daily.BusinessDate
	if reportDate.IsZero() {
		reportDate = time.Now().UTC().Truncate(24 * time.Hour)
		logger.Warn("daily report carries no business date, using today",
			slog.Time("report_date", reportDate))
	}
	for i := range pr.daily.Deliveries {
		pr.daily.Deliveries[i].ReportDate = reportDate
	}

	g, _ := errgroup.WithContext(ctx)
	if in.mtd != "" {
		g.Go(func() error { pr.mtd = reports.ParseMonthToDate(in.mtd); return nil })
	}
	if in.ytd != "" {
		g.Go(func() error { pr.ytd = reports.ParseYearToDate(in.ytd); return nil })
	}
	if in.bulletin != "" {
		g.Go(func() error { pr.bulletin = reports.ParseBulletin(in.bulletin); return nil })
	}
	if in.volume != "" {
		g.Go(func() error { pr.volume = reports.ParseVolumeSummary(in.volume); return nil })
	}

	snaps := make([]*domain.InventorySnapshot, len(in.stockFiles))
	for i, path := range in.stockFiles {
		g.Go(func() error {
			snap, err := stocks.ParseWorkbook(path, reportDate)
			if err != nil {
				if !errors.Is(err, stocks.ErrUnknownCommodity) {
					logger.Warn("failed to parse stock workbook",
						slog.String("path", path),
						slog.String("error", err.Error()))
				}
				return nil
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, time.Time{}, err
	}

	for _, snap := range snaps {
		if snap != nil {
			pr.stocks = append(pr.stocks, snap)
		}
	}
	pr.skipped = len(in.stockFiles) - len(pr.stocks)
	return pr, reportDate, nil
}

func parsedReportCount(pr *parsed) int {
	n := 1
	for _, present := range []bool{pr.mtd != nil, pr.ytd != nil, pr.bulletin != nil, pr.volume != nil} {
		if present {
			n++
		}
	}
	return n + len(pr.stocks)
}

// monthToDateUnits derives the month-to-date delivered contract units
// per commodity. The month-to-date report is authoritative; without it
// the daily report's running total stands in.
func monthToDateUnits(pr *parsed) map[string]float64 {
	units := make(map[string]float64)
	if pr.mtd != nil {
		for _, c := range pr.mtd.Contracts {
			if spec, ok := domain.SpecFor(c.Commodity); ok {
				units[c.Commodity] += float64(c.TotalCumulative) * spec.ContractSize
			}
		}
		return units
	}
	for _, d := range pr.daily.Deliveries {
		if spec, ok := domain.SpecFor(d.Commodity); ok {
			units[d.Commodity] += float64(d.MonthToDate) * spec.ContractSize
		}
	}
	return units
}

// persist writes every derived record sequentially, tallying outcomes
// per entity. One failed record never blocks its siblings.
func (p *Pipeline) persist(
	ctx context.Context,
	pr *parsed,
	activity []*domain.MarketActivity,
	scores []domain.RiskScore,
	ratios []*domain.PaperPhysical,
	logger *slog.Logger,
) []StageSummary {
	inventory := make([]storage.Outcome, 0, len(pr.stocks))
	for _, snap := range pr.stocks {
		inventory = append(inventory, p.store.UpsertInventory(ctx, snap))
	}

	delivery := make([]storage.Outcome, 0, len(pr.daily.Deliveries))
	for i := range pr.daily.Deliveries {
		delivery = append(delivery, p.store.UpsertDelivery(ctx, &pr.daily.Deliveries[i]))
	}

	market := make([]storage.Outcome, 0, len(activity))
	for _, act := range activity {
		market = append(market, p.store.UpsertMarketActivity(ctx, act))
	}

	paper := make([]storage.Outcome, 0, len(ratios))
	for _, pp := range ratios {
		paper = append(paper, p.store.UpsertPaperPhysical(ctx, pp))
	}

	riskOut := make([]storage.Outcome, 0, len(scores))
	for i := range scores {
		riskOut = append(riskOut, p.store.UpsertRiskScore(ctx, &scores[i]))
	}

	var summaries []StageSummary
	for _, group := range []struct {
		stage    string
		outcomes []storage.Outcome
	}{
		{"persist_inventory", inventory},
		{"persist_delivery", delivery},
		{"persist_market_activity", market},
		{"persist_paper_physical", paper},
		{"persist_risk_score", riskOut},
	} {
		summaries = append(summaries, tally(group.stage, group.outcomes, logger))
	}
	return summaries
}

func tally(stage string, outcomes []storage.Outcome, logger *slog.Logger) StageSummary {
	summary := StageSummary{Stage: stage}
	for _, out := range outcomes {
		if out.Succeeded() {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		logger.Error("record persistence failed",
			slog.String("entity", out.Entity),
			slog.String("key", out.Key),
			slog.String("error", out.Err.Error()))
	}
	return summary
}

// export writes one artifact per parsed report plus the risk artifact.
// An artifact write failure is logged and counted, not fatal.
func (p *Pipeline) export(
	reportDate time.Time,
	pr *parsed,
	scores []domain.RiskScore,
	ratios []*domain.PaperPhysical,
	logger *slog.Logger,
) StageSummary {
	summary := StageSummary{Stage: "export"}
	record := func(name string, err error) {
		if err != nil {
			summary.Failed++
			logger.Error("artifact write failed",
				slog.String("artifact", name),
				slog.String("error", err.Error()))
			return
		}
		summary.Succeeded++
	}

	record("delivery.json", p.writer.WriteDelivery(pr.daily))
	if pr.mtd != nil {
		record("delivery_mtd.json", p.writer.WriteMonthToDate(pr.mtd))
	}
	if pr.ytd != nil {
		record("delivery_ytd.json", p.writer.WriteYearToDate(pr.ytd))
	}
	if pr.bulletin != nil {
		record("bulletin.json", p.writer.WriteBulletin(pr.bulletin))
	}
	if pr.volume != nil {
		record("volume_summary.json", p.writer.WriteVolumeSummary(pr.volume))
	}
	if len(pr.stocks) > 0 {
		record("stocks.json", p.writer.WriteStocks(pr.stocks))
	}
	if len(scores) > 0 {
		record("risk.json", p.writer.WriteRisk(reportDate, scores, ratios))
	}
	return summary
}
