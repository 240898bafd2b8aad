// Package files persists encrypted file records.
package files

import (
	"context"

	"github.com/mpfc/securebanking/internal/server/models"
)

type Repository interface {
	// Create inserts a new encrypted file record and returns it with the
	// generated ID. A checksum collision yields common.ErrDuplicateFile.
	Create(ctx context.Context, file *models.FileRecord) (*models.FileRecord, error)

	// FindByChecksum returns the record with the given content digest, or
	// common.ErrorNotFound.
	FindByChecksum(ctx context.Context, checksum string) (*models.FileRecord, error)

	// GetByID returns the full record including nonce and ciphertext, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.FileRecord, error)

	// List returns metadata (no nonce/ciphertext) for all stored files,
	// newest first.
	List(ctx context.Context) ([]*models.FileRecord, error)
}
