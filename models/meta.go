// models/meta.go
package models

import "time"

// SyncStatus describes the freshness of the route projection.
type SyncStatus struct {
	Status      string    `json:"status"` // ok or degraded
	Source      string    `json:"source"`
	Routes      int       `json:"routes"`
	CollectedAt time.Time `json:"collected_at"`
	LastError   string    `json:"last_error,omitempty"`
}

const (
	SyncOK       = "ok"
	SyncDegraded = "degraded"
)
