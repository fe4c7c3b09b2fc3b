// Package ingest reads daily OHLCV bar files into domain bars.
//
// Two formats are supported: CSV files with a header row, and Excel
// workbooks where the bar table lives on the first sheet (or a named one).
// Rows that fail to parse are skipped with a warning rather than aborting
// the whole file; source data is messy and one bad row should not block an
// ingestion run.
package ingest
