package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/repositories/repomanager"
)

// IncidentService records security-relevant events for later review.
// Like the audit trail it is best-effort and never fails the caller.
type IncidentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewIncidentService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *IncidentService {
	return &IncidentService{db: db, repomanager: m, log: log}
}

// Record appends one incident. Username may be empty when the actor is
// unknown.
func (s *IncidentService) Record(ctx context.Context, username, eventType, details string) {
	incident := &models.Incident{
		Username:  username,
		EventType: eventType,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := s.repomanager.Incidents(s.db).Create(ctx, incident); err != nil {
		s.log.Error(ctx, "incident sink failure",
			"event_type", eventType, "error", err.Error())
	}
}

// Acknowledge marks an incident as reviewed.
func (s *IncidentService) Acknowledge(ctx context.Context, id int64) error {
	return s.repomanager.Incidents(s.db).Acknowledge(ctx, id)
}
