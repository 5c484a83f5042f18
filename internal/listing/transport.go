package listing

import "time"

// RefreshResult reports the outcome of one refresh cycle. Skipped is true
// when the gate rejected the cycle; Refreshed then carries the existing
// marker instant rather than a new one.
type RefreshResult struct {
	Skipped   bool      `json:"skipped"`
	JobCount  int       `json:"jobCount"`
	Refreshed time.Time `json:"refreshed"`
}

type LastUpdateResponse struct {
	LastUpdate time.Time `json:"lastUpdate"`
}
