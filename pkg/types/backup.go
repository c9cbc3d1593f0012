package types

import "time"

// Backup is the full export document: a read-only snapshot of the listed
// tables at roughly one instant.
type Backup struct {
	Timestamp time.Time                   `json:"timestamp"`
	Version   string                      `json:"version"`
	Tables    map[string][]map[string]any `json:"tables"`
}
