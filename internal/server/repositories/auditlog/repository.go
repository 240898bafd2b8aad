// Package auditlog persists the append-only audit trail.
package auditlog

import (
	"context"

	"github.com/mpfc/securebanking/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.AuditEvent) error
}
