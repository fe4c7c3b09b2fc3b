// Package exporter writes derived seasonality data to files.
//
// CSVWriter is the shared low-level writer (headers, UTF-8 BOM for Excel
// compatibility, directory creation). RecordsExporter dumps timeframe
// records and patterns as CSV, one file per timeframe. WorkbookExporter
// builds a multi-sheet Excel seasonality report.
package exporter
