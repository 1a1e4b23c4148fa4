// Command pipeline runs one batch over the day's COMEX metals reports:
// parse, score, persist, export. Invoked by an external scheduler; it
// exits non-zero only when the daily report is missing or the store is
// unreachable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cmxcli/internal/app"
	"cmxcli/internal/config"
	"cmxcli/internal/exporter"
	"cmxcli/internal/infrastructure"
	"cmxcli/internal/storage"
	"cmxcli/pkg/contracts"
)

func main() {
	reportsDir := flag.String("reports", "", "directory holding the day's report text files (overrides config)")
	stocksDir := flag.String("stocks", "", "directory holding the warehouse stock workbooks (overrides config)")
	outDir := flag.String("out", "", "artifact output directory (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *reportsDir != "" {
		cfg.Inputs.ReportsDir = *reportsDir
	}
	if *stocksDir != "" {
		cfg.Inputs.StocksDir = *stocksDir
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	logger.Info("pipeline starting", slog.String("version", contracts.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.NewPostgresDB(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Error("store unreachable, aborting batch", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.RunMigrations(cfg.Database.URL); err != nil {
		logger.Error("migrations failed, aborting batch", "error", err)
		os.Exit(1)
	}

	pipeline := app.New(cfg, storage.NewStore(db), exporter.NewWriter(cfg.Output.Dir, nil), logger)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("batch aborted", "error", err)
		os.Exit(1)
	}

	// Partial failures are already tallied in the stage summaries; the
	// scheduler only needs a non-zero exit for fatal conditions.
	logger.Info("batch complete",
		slog.String("run_id", summary.RunID),
		slog.Time("report_date", summary.ReportDate),
		slog.Bool("had_failures", summary.Failed()))
}
