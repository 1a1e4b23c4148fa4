package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"cmxcli/pkg/contracts/domain"
)

// Store exposes the upsert operations the pipeline persists through.
// Every method is idempotent: re-running the batch for the same report
// date overwrites the prior rows instead of duplicating them.
type Store struct {
	db *PostgresDB
}

// NewStore wraps an open database connection.
func NewStore(db *PostgresDB) *Store {
	return &Store{db: db}
}

const dateKeyLayout = "2006-01-02"

func recordKey(name string, reportDate time.Time) string {
	return name + "/" + reportDate.Format(dateKeyLayout)
}

// nullDate maps the zero time to SQL NULL. Several source reports omit
// their activity or delivery date stamp.
func nullDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// UpsertInventory writes one warehouse inventory snapshot and replaces
// its per-depository rows in the same transaction.
func (s *Store) UpsertInventory(ctx context.Context, snap *domain.InventorySnapshot) Outcome {
	out := Outcome{Entity: "inventory", Key: recordKey(snap.Commodity, snap.ReportDate)}

	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		out.Err = fmt.Errorf("failed to begin transaction: %w", err)
		return out
	}
	defer tx.Rollback(ctx)

	var snapshotID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO inventory_snapshots (commodity, report_date, activity_date, registered, eligible, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (commodity, report_date) DO UPDATE SET
			activity_date = EXCLUDED.activity_date,
			registered = EXCLUDED.registered,
			eligible = EXCLUDED.eligible,
			total = EXCLUDED.total,
			updated_at = NOW()
		RETURNING id`,
		snap.Commodity, snap.ReportDate, nullDate(snap.ActivityDate),
		snap.Registered, snap.Eligible, snap.Total,
	).Scan(&snapshotID)
	if err != nil {
		out.Err = fmt.Errorf("failed to upsert inventory snapshot: %w", err)
		return out
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM depository_snapshots WHERE inventory_snapshot_id = $1`, snapshotID); err != nil {
		out.Err = fmt.Errorf("failed to clear depository rows: %w", err)
		return out
	}
	for _, dep := range snap.Depositories {
		if _, err := tx.Exec(ctx, `
			INSERT INTO depository_snapshots (inventory_snapshot_id, depository, registered, eligible, total)
			VALUES ($1, $2, $3, $4, $5)`,
			snapshotID, dep.Name, dep.Registered, dep.Eligible, dep.Total); err != nil {
			out.Err = fmt.Errorf("failed to insert depository row %q: %w", dep.Name, err)
			return out
		}
	}

	out.Err = tx.Commit(ctx)
	return out
}

// UpsertDelivery writes one day's delivery record and replaces its firm
// breakdown in the same transaction.
func (s *Store) UpsertDelivery(ctx context.Context, day *domain.DeliveryDay) Outcome {
	out := Outcome{Entity: "delivery", Key: recordKey(day.Commodity, day.ReportDate)}

	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		out.Err = fmt.Errorf("failed to begin transaction: %w", err)
		return out
	}
	defer tx.Rollback(ctx)

	var snapshotID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO delivery_snapshots (metal, symbol, report_date, contract_month, settlement_price,
			delivery_date, daily_issued, daily_stopped, month_to_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (metal, report_date) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			contract_month = EXCLUDED.contract_month,
			settlement_price = EXCLUDED.settlement_price,
			delivery_date = EXCLUDED.delivery_date,
			daily_issued = EXCLUDED.daily_issued,
			daily_stopped = EXCLUDED.daily_stopped,
			month_to_date = EXCLUDED.month_to_date,
			updated_at = NOW()
		RETURNING id`,
		day.Commodity, day.Symbol, day.ReportDate, day.ContractMonth, day.Settlement,
		nullDate(day.DeliveryDate), day.DailyIssued, day.DailyStopped, day.MonthToDate,
	).Scan(&snapshotID)
	if err != nil {
		out.Err = fmt.Errorf("failed to upsert delivery snapshot: %w", err)
		return out
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM delivery_firm_snapshots WHERE delivery_snapshot_id = $1`, snapshotID); err != nil {
		out.Err = fmt.Errorf("failed to clear firm rows: %w", err)
		return out
	}
	for _, firm := range day.Firms {
		if _, err := tx.Exec(ctx, `
			INSERT INTO delivery_firm_snapshots (delivery_snapshot_id, firm_code, firm_org, firm_name, issued, stopped)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			snapshotID, firm.Code, string(firm.Org), firm.Name, firm.Issued, firm.Stopped); err != nil {
			out.Err = fmt.Errorf("failed to insert firm row %s: %w", firm.Key(), err)
			return out
		}
	}

	out.Err = tx.Commit(ctx)
	return out
}

// UpsertMarketActivity writes one product's consolidated volume and
// open interest row.
func (s *Store) UpsertMarketActivity(ctx context.Context, act *domain.MarketActivity) Outcome {
	out := Outcome{Entity: "market_activity", Key: recordKey(act.Symbol, act.ReportDate)}

	_, err := s.db.Pool().Exec(ctx, `
		INSERT INTO market_activity_snapshots (symbol, product_name, report_date, front_month,
			settlement_price, price_change, total_volume, open_interest, oi_change, yoy_volume, yoy_open_interest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol, report_date) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			front_month = EXCLUDED.front_month,
			settlement_price = EXCLUDED.settlement_price,
			price_change = EXCLUDED.price_change,
			total_volume = EXCLUDED.total_volume,
			open_interest = EXCLUDED.open_interest,
			oi_change = EXCLUDED.oi_change,
			yoy_volume = EXCLUDED.yoy_volume,
			yoy_open_interest = EXCLUDED.yoy_open_interest,
			updated_at = NOW()`,
		act.Symbol, act.Name, act.ReportDate, act.FrontMonth,
		act.Settlement, act.Change, act.TotalVolume, act.OpenInterest,
		act.OIChange, act.YoYVolume, act.YoYOpenInterest)
	if err != nil {
		out.Err = fmt.Errorf("failed to upsert market activity: %w", err)
	}
	return out
}

// UpsertPaperPhysical writes one commodity's paper-to-physical ratio row.
func (s *Store) UpsertPaperPhysical(ctx context.Context, pp *domain.PaperPhysical) Outcome {
	out := Outcome{Entity: "paper_physical", Key: recordKey(pp.Commodity, pp.ReportDate)}

	_, err := s.db.Pool().Exec(ctx, `
		INSERT INTO paper_physical_snapshots (commodity, futures_symbol, report_date,
			open_interest, paper_units, registered_units, ratio, risk_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (commodity, report_date) DO UPDATE SET
			futures_symbol = EXCLUDED.futures_symbol,
			open_interest = EXCLUDED.open_interest,
			paper_units = EXCLUDED.paper_units,
			registered_units = EXCLUDED.registered_units,
			ratio = EXCLUDED.ratio,
			risk_level = EXCLUDED.risk_level,
			updated_at = NOW()`,
		pp.Commodity, pp.Symbol, pp.ReportDate,
		pp.OpenInterest, pp.PaperUnits, pp.RegisteredUnits, pp.Ratio, pp.Level)
	if err != nil {
		out.Err = fmt.Errorf("failed to upsert paper/physical ratio: %w", err)
	}
	return out
}

// UpsertRiskScore writes one commodity's risk scorecard row.
func (s *Store) UpsertRiskScore(ctx context.Context, score *domain.RiskScore) Outcome {
	out := Outcome{Entity: "risk_score", Key: recordKey(score.Commodity, score.ReportDate)}

	_, err := s.db.Pool().Exec(ctx, `
		INSERT INTO risk_score_snapshots (commodity, report_date, coverage_score, leverage_score,
			trend_score, velocity_score, activity_score, composite_score, level, dominant_factor, commentary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (commodity, report_date) DO UPDATE SET
			coverage_score = EXCLUDED.coverage_score,
			leverage_score = EXCLUDED.leverage_score,
			trend_score = EXCLUDED.trend_score,
			velocity_score = EXCLUDED.velocity_score,
			activity_score = EXCLUDED.activity_score,
			composite_score = EXCLUDED.composite_score,
			level = EXCLUDED.level,
			dominant_factor = EXCLUDED.dominant_factor,
			commentary = EXCLUDED.commentary,
			updated_at = NOW()`,
		score.Commodity, score.ReportDate, score.Coverage, score.Leverage,
		score.Trend, score.Velocity, score.Activity, score.Composite,
		string(score.Level), string(score.Dominant), score.Commentary)
	if err != nil {
		out.Err = fmt.Errorf("failed to upsert risk score: %w", err)
	}
	return out
}

// LatestInventoryBefore returns the most recent inventory snapshot for
// the commodity at or before the cutoff, without depository rows. A nil
// snapshot with a nil error means no history exists yet; trend scoring
// then falls back to its neutral default.
func (s *Store) LatestInventoryBefore(ctx context.Context, commodity string, cutoff time.Time) (*domain.InventorySnapshot, error) {
	snap := &domain.InventorySnapshot{}
	var activityDate *time.Time
	err := s.db.Pool().QueryRow(ctx, `
		SELECT commodity, report_date, activity_date, registered, eligible, total
		FROM inventory_snapshots
		WHERE commodity = $1 AND report_date <= $2
		ORDER BY report_date DESC
		LIMIT 1`,
		commodity, cutoff,
	).Scan(&snap.Commodity, &snap.ReportDate, &activityDate, &snap.Registered, &snap.Eligible, &snap.Total)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory history: %w", err)
	}
	if activityDate != nil {
		snap.ActivityDate = *activityDate
	}
	return snap, nil
}
