// Package inspect serves a scenario replay over HTTP.
//
// Each POST /step applies the next pass of the scenario to a live host tree
// and pushes the result to every WebSocket client connected to /ws. Patch
// metrics are exposed in the Prometheus text format on /metrics.
package inspect
