// Package http serves the read side of the stored datasets over HTTP.
//
// Routes:
//
//	GET /api/exchange-rate       most recent exchange rates, newest first
//	GET /get_exchange_rate_data  same handler under its historical path
//	GET /healthz                 database reachability
//	GET /metrics                 Prometheus metrics
//
// Errors are answered with RFC 7807 problem details from internal/errors.
package http
