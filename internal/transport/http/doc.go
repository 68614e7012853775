// Package http implements the HTTP handlers of the stats server. Handlers
// are thin: they parse and validate the request, call the report service
// and render the result with chi/render.
//
// # Routes
//
//	GET  /api/health
//	GET  /api/stats/sets-per-year
//	GET  /api/stats/top-themes?limit=N
//	GET  /api/stats/yoy-growth?limit=N
//	GET  /api/stats/forecast
//	POST /api/stats/refresh
//	GET  /api/tables
//	POST /api/operations/merge
//
// # Error Handling
//
// Every failure is rendered as RFC 7807 Problem Details through
// errors.ErrorHandler. Statistics that have not been loaded yet map to
// 404 MERGED_DATA_NOT_FOUND and a merge that is already running maps to
// 409 OPERATION_RUNNING.
package http
