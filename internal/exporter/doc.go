// Package exporter writes report results to disk for use outside the
// service.
//
// CSVWriter is the low-level writer: header plus records, optional UTF-8 BOM
// for Excel, and a streaming variant for large tables. Relative file names
// resolve into the results directory.
//
// StatsExporter turns domain.Statistics into one CSV per report, and
// WorkbookWriter puts the same tables on the sheets of a single XLSX file:
//
//	reports := exporter.BuildReports(stats)
//	files, err := exporter.NewStatsExporter(writer, logger).Export(ctx, reports)
//	err = exporter.NewWorkbookWriter(logger).Write(ctx, reports, paths.WorkbookFile)
package exporter
