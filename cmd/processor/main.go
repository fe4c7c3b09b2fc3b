// Command processor runs the SeasonPulse seasonality pipeline from the
// command line: optional bar file ingestion, per-symbol or full-universe
// processing, and CSV/Excel report export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"seasonpulse/internal/aggregation"
	"seasonpulse/internal/config"
	"seasonpulse/internal/exporter"
	"seasonpulse/internal/infrastructure"
	"seasonpulse/internal/ingest"
	"seasonpulse/internal/pattern"
	"seasonpulse/internal/persistence"
	"seasonpulse/internal/persistence/postgres"
	"seasonpulse/internal/services"
	"seasonpulse/pkg/contracts/domain"
)

func main() {
	loadPath := flag.String("load", "", "bar file (.csv or .xlsx) to ingest before processing; requires -symbol")
	sheet := flag.String("sheet", "", "workbook sheet name for -load with .xlsx (defaults to first sheet)")
	symbol := flag.String("symbol", "", "process a single instrument")
	all := flag.Bool("all", false, "process every known instrument")
	export := flag.Bool("export", false, "write CSV exports after processing")
	workbook := flag.Bool("workbook", false, "write an Excel seasonality workbook after processing")
	flag.Parse()

	if err := run(*loadPath, *sheet, *symbol, *all, *export, *workbook); err != nil {
		slog.Error("processor failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(loadPath, sheet, symbol string, all, export, workbook bool) error {
	if loadPath != "" && symbol == "" {
		return fmt.Errorf("-load requires -symbol")
	}
	if !all && symbol == "" {
		return fmt.Errorf("nothing to do: pass -symbol or -all")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	slog.SetDefault(logger)
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	timeout := cfg.Database.QueryTimeout
	barRepo := postgres.NewBarRepo(db, timeout)
	timeframeRepo := postgres.NewTimeframeRepo(db, timeout, logger)
	patternRepo := postgres.NewPatternRepo(db, timeout)

	if loadPath != "" {
		if err := ingestBars(ctx, barRepo, loadPath, sheet, symbol, logger); err != nil {
			return err
		}
	}

	pipeline := services.NewPipelineService(
		barRepo, timeframeRepo, patternRepo,
		aggregation.NewAggregator(logger),
		pattern.NewAnalyzer(logger),
		nil, logger, cfg.Pipeline.Concurrency,
	)

	var symbols []string
	if all {
		summary, err := pipeline.ProcessAll(ctx)
		if err != nil {
			return fmt.Errorf("pipeline run: %w", err)
		}
		if len(summary.Failed) > 0 {
			for s, msg := range summary.Failed {
				logger.Warn("instrument failed", slog.String("symbol", s), slog.String("error", msg))
			}
		}
		symbols, err = barRepo.ListSymbols(ctx)
		if err != nil {
			return fmt.Errorf("list symbols: %w", err)
		}
	} else {
		if _, err := pipeline.ProcessSymbol(ctx, symbol); err != nil {
			return fmt.Errorf("pipeline run for %s: %w", symbol, err)
		}
		symbols = []string{symbol}
	}

	if export {
		records := exporter.NewRecordsExporter(timeframeRepo, patternRepo,
			exporter.NewCSVWriter(cfg.Export.Dir, logger), logger)
		for _, s := range symbols {
			if err := records.ExportSymbol(ctx, s); err != nil {
				return fmt.Errorf("export %s: %w", s, err)
			}
			for _, pt := range []domain.PatternType{
				domain.PatternMonthlySeasonal,
				domain.PatternWeeklySeasonal,
				domain.PatternQuarterlySeasonal,
			} {
				if err := records.ExportPatterns(ctx, s, pt); err != nil {
					return fmt.Errorf("export %s patterns: %w", s, err)
				}
			}
		}
	}

	if workbook {
		books := exporter.NewWorkbookExporter(patternRepo, cfg.Export.Dir, logger)
		for _, s := range symbols {
			path, err := books.ExportSymbol(ctx, s)
			if err != nil {
				return fmt.Errorf("export %s workbook: %w", s, err)
			}
			logger.Info("workbook written", slog.String("path", path))
		}
	}

	return nil
}

func ingestBars(ctx context.Context, store persistence.BarStore, path, sheet, symbol string, logger *slog.Logger) error {
	loader := ingest.NewLoader(logger)

	var bars []domain.Bar
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		bars, err = loader.ReadExcel(ctx, path, symbol, sheet)
	default:
		bars, err = loader.ReadCSV(ctx, path, symbol)
	}
	if err != nil {
		return fmt.Errorf("read bar file: %w", err)
	}

	if err := store.UpsertBars(ctx, bars); err != nil {
		return fmt.Errorf("store bars: %w", err)
	}
	logger.Info("bars ingested",
		slog.String("symbol", symbol),
		slog.String("path", path),
		slog.Int("bars", len(bars)))
	return nil
}
