// Package handlers implements the HTTP API of bike-hunter: probes, the hunt
// trigger, FMV queries and read-only views of the catalog, the manual review
// queue and the fetcher's circuit breakers.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string            `json:"status"           example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}
