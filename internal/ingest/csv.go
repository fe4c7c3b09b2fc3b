package ingest

import (
	"context"
	"encoding/csv"
	"os"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

// ReadCSV reads daily bars for one symbol from a CSV file with a header
// row. Recognized columns: date, open, high, low, close, volume,
// open_interest; date and close are required.
func (l *Loader) ReadCSV(ctx context.Context, path, symbol string) ([]domain.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError("open bar file", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("read bar file", err).WithContext("path", path)
	}

	return l.barsFromRows(ctx, symbol, path, rows)
}
