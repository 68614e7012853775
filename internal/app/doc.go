// Package app wires the stats server: configuration, logging, OpenTelemetry,
// the pipeline manager, the report service and the HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config file and environment
//	2. Initialize logging and observability
//	3. Build the catalog pipeline manager and the report service
//	4. Load statistics from merged tables already on disk
//	5. Set up HTTP handlers and middleware
//	6. Start the HTTP server
//
// A missing merged table set is not fatal at startup: the server reports
// itself degraded until POST /api/operations/merge has run.
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM, lets active requests finish within the
// configured shutdown timeout and flushes the telemetry providers.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The app does not
// call os.Exit() directly, allowing main to control the exit process.
package app
