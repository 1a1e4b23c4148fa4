package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cmxcli/internal/config"
)

// Fixed file names the scheduler drops into the reports directory.
// Only the daily issues & stops report is mandatory.
const (
	dailyReportFile   = "delivery.txt"
	mtdReportFile     = "delivery_mtd.txt"
	ytdReportFile     = "delivery_ytd.txt"
	bulletinFile      = "bulletin.txt"
	volumeSummaryFile = "volume_summary.txt"
)

// ErrMissingDailyReport marks the one fatal input condition: without
// the daily issues & stops report there is no batch to run.
var ErrMissingDailyReport = errors.New("daily issues & stops report not found")

type inputs struct {
	daily      string
	mtd        string
	ytd        string
	bulletin   string
	volume     string
	stockFiles []string
}

func loadInputs(cfg config.InputsConfig, logger *slog.Logger) (*inputs, error) {
	in := &inputs{}

	dailyPath := filepath.Join(cfg.ReportsDir, dailyReportFile)
	data, err := os.ReadFile(dailyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingDailyReport, dailyPath)
	}
	in.daily = string(data)

	in.mtd = readOptional(cfg.ReportsDir, mtdReportFile, logger)
	in.ytd = readOptional(cfg.ReportsDir, ytdReportFile, logger)
	in.bulletin = readOptional(cfg.ReportsDir, bulletinFile, logger)
	in.volume = readOptional(cfg.ReportsDir, volumeSummaryFile, logger)

	in.stockFiles, err = filepath.Glob(filepath.Join(cfg.StocksDir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("failed to list stock workbooks: %w", err)
	}
	if len(in.stockFiles) == 0 {
		logger.Warn("no warehouse stock workbooks found",
			slog.String("dir", cfg.StocksDir))
	}

	return in, nil
}

func readOptional(dir, name string, logger *slog.Logger) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		logger.Warn("optional report not found, skipping",
			slog.String("file", name),
			slog.String("dir", dir))
		return ""
	}
	return string(data)
}
