package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cmxcli/internal/reports"
	"cmxcli/pkg/contracts/domain"
)

// Writer writes JSON artifacts into a single output directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer rooted at dir. A nil clock uses wall time.
func NewWriter(dir string, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{dir: dir, now: now}
}

const (
	businessDateFormat = "01/02/2006"
	parsedDateFormat   = "2006-01-02"
)

// dateStrings renders the report's human-readable and ISO date forms.
// Both are empty when the source report carried no date stamp.
func dateStrings(t time.Time) (string, string) {
	if t.IsZero() {
		return "", ""
	}
	return t.Format(businessDateFormat), t.Format(parsedDateFormat)
}

type deliveryArtifact struct {
	BusinessDate string               `json:"business_date"`
	ParsedDate   string               `json:"parsed_date"`
	Deliveries   []domain.DeliveryDay `json:"deliveries"`
	LastUpdated  string               `json:"last_updated"`
}

// WriteDelivery writes delivery.json, the daily issues and stops
// notice with firm breakdowns.
func (w *Writer) WriteDelivery(report *reports.DailyReport) error {
	business, parsed := dateStrings(report.BusinessDate)
	return w.writeJSON("delivery.json", deliveryArtifact{
		BusinessDate: business,
		ParsedDate:   parsed,
		Deliveries:   report.Deliveries,
		LastUpdated:  w.stamp(),
	})
}

type mtdArtifact struct {
	BusinessDate string                       `json:"business_date"`
	ParsedDate   string                       `json:"parsed_date"`
	Contracts    []domain.DeliveryMonthToDate `json:"contracts"`
	LastUpdated  string                       `json:"last_updated"`
}

// WriteMonthToDate writes delivery_mtd.json, the month-to-date daily
// delivery series per contract.
func (w *Writer) WriteMonthToDate(report *reports.MTDReport) error {
	business, parsed := dateStrings(report.BusinessDate)
	return w.writeJSON("delivery_mtd.json", mtdArtifact{
		BusinessDate: business,
		ParsedDate:   parsed,
		Contracts:    report.Contracts,
		LastUpdated:  w.stamp(),
	})
}

type ytdArtifact struct {
	BusinessDate string                      `json:"business_date"`
	ParsedDate   string                      `json:"parsed_date"`
	Products     []domain.DeliveryYearToDate `json:"products"`
	LastUpdated  string                      `json:"last_updated"`
}

// WriteYearToDate writes delivery_ytd.json, the year-to-date monthly
// totals and firm league table per product.
func (w *Writer) WriteYearToDate(report *reports.YTDReport) error {
	business, parsed := dateStrings(report.BusinessDate)
	return w.writeJSON("delivery_ytd.json", ytdArtifact{
		BusinessDate: business,
		ParsedDate:   parsed,
		Products:     report.Products,
		LastUpdated:  w.stamp(),
	})
}

type bulletinArtifact struct {
	BulletinNumber int                      `json:"bulletin_number"`
	Date           string                   `json:"date"`
	ParsedDate     string                   `json:"parsed_date"`
	Products       []domain.BulletinProduct `json:"products"`
	LastUpdated    string                   `json:"last_updated"`
}

// WriteBulletin writes bulletin.json, per-contract settlement, volume
// and open interest for each metals product.
func (w *Writer) WriteBulletin(report *reports.BulletinReport) error {
	date, parsed := dateStrings(report.Date)
	return w.writeJSON("bulletin.json", bulletinArtifact{
		BulletinNumber: report.BulletinNumber,
		Date:           date,
		ParsedDate:     parsed,
		Products:       report.Products,
		LastUpdated:    w.stamp(),
	})
}

type volumeArtifact struct {
	BulletinNumber int                    `json:"bulletin_number"`
	Date           string                 `json:"date"`
	ParsedDate     string                 `json:"parsed_date"`
	Products       []domain.ProductVolume `json:"products"`
	Totals         domain.GroupVolume     `json:"totals"`
	LastUpdated    string                 `json:"last_updated"`
}

// WriteVolumeSummary writes volume_summary.json, exchange-wide volume
// and open interest per product with year-over-year comparisons.
func (w *Writer) WriteVolumeSummary(report *reports.VolumeSummaryReport) error {
	date, parsed := dateStrings(report.Date)
	return w.writeJSON("volume_summary.json", volumeArtifact{
		BulletinNumber: report.BulletinNumber,
		Date:           date,
		ParsedDate:     parsed,
		Products:       report.Products,
		Totals:         report.Totals,
		LastUpdated:    w.stamp(),
	})
}

type stocksTotals struct {
	Registered float64 `json:"registered"`
	Eligible   float64 `json:"eligible"`
	Total      float64 `json:"total"`
}

type stocksEntry struct {
	ReportDate   string                     `json:"report_date"`
	ActivityDate string                     `json:"activity_date,omitempty"`
	Depositories []domain.DepositoryHolding `json:"depositories"`
	Totals       stocksTotals               `json:"totals"`
	LastUpdated  string                     `json:"last_updated"`
}

// WriteStocks writes stocks.json, one entry per commodity keyed by
// name with depository breakdowns and re-derived totals.
func (w *Writer) WriteStocks(snapshots []*domain.InventorySnapshot) error {
	artifact := make(map[string]stocksEntry, len(snapshots))
	stamp := w.stamp()
	for _, snap := range snapshots {
		entry := stocksEntry{
			Depositories: snap.Depositories,
			Totals: stocksTotals{
				Registered: snap.Registered,
				Eligible:   snap.Eligible,
				Total:      snap.Total,
			},
			LastUpdated: stamp,
		}
		entry.ReportDate, _ = dateStrings(snap.ReportDate)
		if !snap.ActivityDate.IsZero() {
			entry.ActivityDate, _ = dateStrings(snap.ActivityDate)
		}
		artifact[snap.Commodity] = entry
	}
	return w.writeJSON("stocks.json", artifact)
}

type riskArtifact struct {
	ReportDate    string                  `json:"report_date"`
	Scores        []domain.RiskScore      `json:"scores"`
	PaperPhysical []*domain.PaperPhysical `json:"paper_physical"`
	LastUpdated   string                  `json:"last_updated"`
}

// WriteRisk writes risk.json, the per-commodity scorecards alongside
// the paper-to-physical ratios they were derived from.
func (w *Writer) WriteRisk(reportDate time.Time, scores []domain.RiskScore, ratios []*domain.PaperPhysical) error {
	_, parsed := dateStrings(reportDate)
	return w.writeJSON("risk.json", riskArtifact{
		ReportDate:    parsed,
		Scores:        scores,
		PaperPhysical: ratios,
		LastUpdated:   w.stamp(),
	})
}

func (w *Writer) stamp() string {
	return w.now().UTC().Format(time.RFC3339)
}

// writeJSON marshals the artifact and renames it into place. The temp
// file lives in the target directory so the rename stays on one
// filesystem.
func (w *Writer) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	target := filepath.Join(w.dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to rename %s into place: %w", name, err)
	}

	slog.Info("wrote artifact",
		slog.String("file", name),
		slog.Int("bytes", len(data)))
	return nil
}
