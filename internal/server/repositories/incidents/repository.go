// Package incidents persists security incidents for later review.
package incidents

import (
	"context"

	"github.com/mpfc/securebanking/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, incident *models.Incident) error

	// Acknowledge marks an incident as reviewed. Unknown ids yield
	// common.ErrorNotFound.
	Acknowledge(ctx context.Context, id int64) error
}
