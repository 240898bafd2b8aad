package incidents

import (
	"context"
	"fmt"

	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/dbx"
	"github.com/mpfc/securebanking/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, incident *models.Incident) error {
	query :=
		`INSERT INTO incidents (username, event_type, details, created_at, acknowledged)
		 VALUES ($1, $2, $3, $4, false)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		incident.Username, incident.EventType, incident.Details, incident.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Acknowledge(ctx context.Context, id int64) error {
	query := `UPDATE incidents SET acknowledged = true WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
