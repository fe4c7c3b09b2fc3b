package ingest

import (
	"context"

	"github.com/xuri/excelize/v2"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

// ReadExcel reads daily bars for one symbol from an Excel workbook. If
// sheet is empty the first sheet is used. The sheet layout matches the CSV
// format: a header row followed by one row per trading day.
func (l *Loader) ReadExcel(ctx context.Context, path, symbol, sheet string) ([]domain.Bar, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheet)
	}

	return l.barsFromRows(ctx, symbol, path+"#"+sheet, rows)
}
