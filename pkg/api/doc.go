// Package api serves stored analysis reports over HTTP and runs analyses
// submitted as graph documents.
//
// Routes:
//
//	GET    /healthz                 liveness and store reachability
//	GET    /api/v1/reports          report summaries, newest first (?limit=N)
//	GET    /api/v1/reports/{id}     one full report
//	DELETE /api/v1/reports/{id}     remove a report
//	POST   /api/v1/analyses         analyze a graph and store the report
//
// Errors are JSON objects {"code": ..., "message": ...} whose code is the
// [errors.Code] of the failure. Every request emits the
// [observability.HTTPHooks] events.
package api
