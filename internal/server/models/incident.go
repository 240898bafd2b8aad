package models

import "time"

// Security-relevant incident kinds.
const (
	IncidentAccountLocked      = "ACCOUNT_LOCKED"
	IncidentUploadFailed       = "UPLOAD_FAILED"
	IncidentUnauthorizedAccess = "UNAUTHORIZED_ACCESS"
)

// Incident is a security event awaiting review. Username may be empty when
// the actor is unknown.
type Incident struct {
	ID           int64
	Username     string
	EventType    string
	Details      string
	CreatedAt    time.Time
	Acknowledged bool
}
