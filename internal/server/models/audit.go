package models

import "time"

// Audit actions recorded by the service.
const (
	AuditFileEncrypted = "FILE_ENCRYPTED"
	AuditFileDecrypted = "FILE_DECRYPTED"
	AuditLoginSuccess  = "LOGIN_SUCCESS"
)

// AuditEvent is one entry in the append-only audit trail.
type AuditEvent struct {
	ID          int64
	Username    string
	Action      string
	ReferenceID string
	Details     string
	CreatedAt   time.Time
}
