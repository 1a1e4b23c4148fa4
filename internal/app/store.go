package app

import (
	"context"
	"time"

	"cmxcli/internal/storage"
	"cmxcli/pkg/contracts/domain"
)

// Store is the persistence surface the pipeline writes through.
// Implemented by storage.Store; tests substitute an in-memory fake.
type Store interface {
	UpsertInventory(ctx context.Context, snap *domain.InventorySnapshot) storage.Outcome
	UpsertDelivery(ctx context.Context, day *domain.DeliveryDay) storage.Outcome
	UpsertMarketActivity(ctx context.Context, act *domain.MarketActivity) storage.Outcome
	UpsertPaperPhysical(ctx context.Context, pp *domain.PaperPhysical) storage.Outcome
	UpsertRiskScore(ctx context.Context, score *domain.RiskScore) storage.Outcome
	LatestInventoryBefore(ctx context.Context, commodity string, cutoff time.Time) (*domain.InventorySnapshot, error)
}

// StageSummary counts one stage's per-record results.
type StageSummary struct {
	Stage     string `json:"stage"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
}

// RunSummary is the operator-facing result of one batch run.
type RunSummary struct {
	RunID      string         `json:"run_id"`
	ReportDate time.Time      `json:"report_date"`
	Stages     []StageSummary `json:"stages"`
}

// Failed reports whether any stage recorded a failure.
func (s *RunSummary) Failed() bool {
	for _, stage := range s.Stages {
		if stage.Failed > 0 {
			return true
		}
	}
	return false
}
