// Package services implements the business logic behind the stats server.
//
// ReportService owns the statistics cache. Refresh runs the refresh pipeline
// over the merged tables and swaps the cached statistics and table summaries
// in one step, so readers never see a half-updated view. RunMerge runs the
// merge pipeline and refreshes afterwards; only one merge may run at a time.
//
// HealthService reports liveness plus whether statistics are loaded.
package services
