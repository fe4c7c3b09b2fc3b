package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

// Loader parses bar files into domain bars.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a bar file loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// dateFormats lists the date layouts seen in exchange bar files.
var dateFormats = []string{
	"2006-01-02",
	"02-Jan-2006",
	"02/01/2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseFloat handles thousands separators and blank cells.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return 0, nil
	}
	// Some sources export volumes as floats ("1200.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// columnIndex maps recognized header names to their column positions.
// Matching is case-insensitive and ignores surrounding whitespace.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case "date", "timestamp":
			idx["date"] = i
		case "open":
			idx["open"] = i
		case "high":
			idx["high"] = i
		case "low":
			idx["low"] = i
		case "close", "ltp", "last":
			idx["close"] = i
		case "volume", "vol", "shares traded":
			idx["volume"] = i
		case "open_interest", "open interest", "oi":
			idx["open_interest"] = i
		}
	}
	return idx
}

// barsFromRows converts a header row plus data rows into bars. Rows that
// fail to parse are logged and skipped.
func (l *Loader) barsFromRows(ctx context.Context, symbol, source string, rows [][]string) ([]domain.Bar, error) {
	if len(rows) < 2 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s: no data rows", source), nil)
	}

	idx := columnIndex(rows[0])
	for _, required := range []string{"date", "close"} {
		if _, ok := idx[required]; !ok {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s: missing %q column", source, required), nil)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	bars := make([]domain.Bar, 0, len(rows)-1)
	skipped := 0
	for n, row := range rows[1:] {
		date, err := parseDate(cell(row, "date"))
		if err != nil {
			l.logger.WarnContext(ctx, "skipping bar row",
				slog.String("source", source),
				slog.Int("row", n+2),
				slog.String("error", err.Error()))
			skipped++
			continue
		}
		open, err1 := parseFloat(cell(row, "open"))
		high, err2 := parseFloat(cell(row, "high"))
		low, err3 := parseFloat(cell(row, "low"))
		closePx, err4 := parseFloat(cell(row, "close"))
		volume, err5 := parseInt(cell(row, "volume"))
		oi, err6 := parseInt(cell(row, "open_interest"))
		if err := firstError(err1, err2, err3, err4, err5, err6); err != nil {
			l.logger.WarnContext(ctx, "skipping bar row",
				slog.String("source", source),
				slog.Int("row", n+2),
				slog.String("error", err.Error()))
			skipped++
			continue
		}

		bars = append(bars, domain.Bar{
			Symbol:       symbol,
			Date:         date,
			Open:         open,
			High:         high,
			Low:          low,
			Close:        closePx,
			Volume:       volume,
			OpenInterest: oi,
		})
	}

	if len(bars) == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("%s: every row failed to parse", source), nil)
	}
	if skipped > 0 {
		l.logger.WarnContext(ctx, "some bar rows skipped",
			slog.String("source", source),
			slog.Int("skipped", skipped),
			slog.Int("parsed", len(bars)))
	}
	return bars, nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
