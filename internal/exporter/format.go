package exporter

import (
	"fmt"
	"time"
)

// formatFloat formats a float for CSV output with exactly 2 decimal places,
// so 13.4 appears as 13.40 across all exports.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
