// Package endpoint exposes health checks over HTTP.
//
// Every request passes through an access gate, then the aggregator, then
// Render. Callers that the gate rejects receive the same 404 as callers
// asking for an indicator that does not exist.
package endpoint
