package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/dbx"
	"github.com/mpfc/securebanking/internal/server/models"
)

// PostgresRepository implements file storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, file *models.FileRecord) (*models.FileRecord, error) {
	query :=
		`INSERT INTO files_encrypted
		 	(file_name, content_type, size_bytes, uploader, uploaded_at,
		 	 encryption_algo, checksum_sha256, nonce, cipher_data, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.FileName, file.ContentType, file.SizeBytes, file.Uploader, file.UploadedAt,
		file.Algorithm, file.Checksum, file.Nonce, file.Ciphertext, file.StorageKey,
	).Scan(&file.ID)

	if err != nil {
		// Two identical uploads can both pass the pre-insert duplicate check;
		// the unique index on checksum_sha256 is the backstop.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateFile
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) FindByChecksum(ctx context.Context, checksum string) (*models.FileRecord, error) {
	query :=
		`SELECT id, file_name, checksum_sha256 FROM files_encrypted
		 WHERE checksum_sha256 = $1
		 `

	file := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, checksum).Scan(&file.ID, &file.FileName, &file.Checksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	query :=
		`SELECT id, file_name, content_type, size_bytes, uploader, uploaded_at,
		        encryption_algo, checksum_sha256, nonce, cipher_data, storage_key
		 FROM files_encrypted
		 WHERE id = $1
		 `

	file := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&file.ID, &file.FileName, &file.ContentType, &file.SizeBytes, &file.Uploader,
		&file.UploadedAt, &file.Algorithm, &file.Checksum, &file.Nonce, &file.Ciphertext,
		&file.StorageKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.FileRecord, error) {
	query :=
		`SELECT id, file_name, content_type, size_bytes, uploader, uploaded_at,
		        encryption_algo, checksum_sha256
		 FROM files_encrypted
		 ORDER BY uploaded_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.ID, &item.FileName, &item.ContentType, &item.SizeBytes,
			&item.Uploader, &item.UploadedAt, &item.Algorithm, &item.Checksum); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
