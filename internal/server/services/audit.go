// Package services contains the server-side business logic: file ingestion
// and retrieval, authentication with brute-force lockout, and the audit and
// incident sinks they report into.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/repositories/repomanager"
)

// AuditService writes the append-only audit trail. Recording is best-effort:
// a sink failure is logged locally and never fails the primary operation.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *AuditService {
	return &AuditService{db: db, repomanager: m, log: log}
}

// Record appends one audit event.
func (s *AuditService) Record(ctx context.Context, username, action, referenceID, details string) {
	event := &models.AuditEvent{
		Username:    username,
		Action:      action,
		ReferenceID: referenceID,
		Details:     details,
		CreatedAt:   time.Now(),
	}
	if err := s.repomanager.AuditLog(s.db).Create(ctx, event); err != nil {
		s.log.Error(ctx, "audit sink failure",
			"action", action, "reference_id", referenceID, "error", err.Error())
	}
}
