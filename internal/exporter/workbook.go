package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// WorkbookExporter builds a multi-sheet Excel seasonality report, one
// sheet per pattern type.
type WorkbookExporter struct {
	patterns persistence.PatternStore
	baseDir  string
	logger   *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter writing under baseDir.
func NewWorkbookExporter(patterns persistence.PatternStore, baseDir string, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{patterns: patterns, baseDir: baseDir, logger: logger}
}

var workbookSheets = []struct {
	name string
	pt   domain.PatternType
}{
	{"Monthly", domain.PatternMonthlySeasonal},
	{"Weekly", domain.PatternWeeklySeasonal},
	{"Quarterly", domain.PatternQuarterlySeasonal},
}

// ExportSymbol writes <symbol>_seasonality.xlsx containing the symbol's
// patterns, one sheet per pattern type. Returns the written path.
func (e *WorkbookExporter) ExportSymbol(ctx context.Context, symbol string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range workbookSheets {
		patterns, err := e.patterns.PatternsBySymbol(ctx, symbol, sheet.pt)
		if err != nil {
			return "", fmt.Errorf("load %s patterns for %s: %w", sheet.pt, symbol, err)
		}

		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return "", err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return "", err
		}
		if err := writePatternSheet(f, sheet.name, patterns); err != nil {
			return "", fmt.Errorf("write sheet %s: %w", sheet.name, err)
		}
	}

	if err := os.MkdirAll(e.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.baseDir, fmt.Sprintf("%s_seasonality.xlsx", strings.ToLower(symbol)))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	e.logger.InfoContext(ctx, "exported seasonality workbook",
		slog.String("symbol", symbol),
		slog.String("path", path))
	return path, nil
}

var sheetHeaders = []string{
	"Period", "Avg Return %", "Volatility", "Win Rate %",
	"Max Gain %", "Max Loss %", "Samples", "Confidence", "Significance",
}

func writePatternSheet(f *excelize.File, sheet string, patterns []domain.Pattern) error {
	for col, h := range sheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, p := range patterns {
		values := []interface{}{
			p.PeriodLabel(),
			p.AvgReturn,
			p.Volatility,
			p.WinRate,
			p.MaxGain,
			p.MaxLoss,
			p.SampleSize,
			p.Confidence,
			p.Significance,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
