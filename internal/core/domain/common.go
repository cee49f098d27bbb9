package domain

import "time"

// AuditFields holds the standard who/when columns shared by most entities.
// The By fields carry a user id value, not a live reference; resolving it to
// a display name is a read-time lookup.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	CreatedBy     string    `json:"createdBy" db:"created_by"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt" db:"last_updated_at"`
	LastUpdatedBy string    `json:"lastUpdatedBy" db:"last_updated_by"`
}
