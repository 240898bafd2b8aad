package auditlog

import (
	"context"
	"fmt"

	"github.com/mpfc/securebanking/internal/dbx"
	"github.com/mpfc/securebanking/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.AuditEvent) error {
	query :=
		`INSERT INTO audit_logs (username, action, reference_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		event.Username, event.Action, event.ReferenceID, event.Details, event.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
