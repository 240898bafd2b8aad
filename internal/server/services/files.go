package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/cryptox"
	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/repositories/repomanager"
	"github.com/mpfc/securebanking/internal/server/storage"
	"github.com/mpfc/securebanking/internal/tabular"
)

// UploadCandidate is one uploaded payload plus what the client declared
// about it. It lives only for the duration of a single Upload call.
type UploadCandidate struct {
	FileName    string
	ContentType string
	Data        []byte
}

// FileService runs the ingestion pipeline (classify → validate → digest →
// dedup-check → encrypt → persist → audit) and the inverse admin retrieval.
// Either the whole pipeline completes or nothing is persisted.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
	objects     storage.ObjectStore // nil keeps ciphertext inline in Postgres
	audit       *AuditService
	incidents   *IncidentService
	log         logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher,
	objects storage.ObjectStore, audit *AuditService, incidents *IncidentService,
	log logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		objects:     objects,
		audit:       audit,
		incidents:   incidents,
		log:         log,
	}
}

func makeStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("files/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Upload ingests one candidate for uploader and returns the stored record.
// Tabular payloads (CSV/XLS/XLSX) must pass schema validation; validation
// failures are recorded as UPLOAD_FAILED incidents and surfaced verbatim.
// Byte-identical re-uploads fail with common.ErrDuplicateFile before any
// cryptographic work.
func (s *FileService) Upload(ctx context.Context, uploader string, cand UploadCandidate) (*models.FileRecord, error) {
	if len(cand.Data) == 0 {
		return nil, common.ErrEmptyFile
	}

	format, ok := tabular.Detect(cand.ContentType, cand.FileName)
	if !ok {
		return nil, common.ErrUnsupportedType
	}

	if format.Tabular() {
		if _, err := tabular.Validate(cand.Data, format); err != nil {
			s.incidents.Record(ctx, uploader, models.IncidentUploadFailed,
				fmt.Sprintf("%s: %v", cand.FileName, err))
			return nil, err
		}
	}

	fileRepo := s.repomanager.Files(s.db)

	checksum := cryptox.Digest(cand.Data)
	if _, err := fileRepo.FindByChecksum(ctx, checksum); err == nil {
		return nil, common.ErrDuplicateFile
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	nonce, ciphertext, err := s.cipher.Encrypt(cand.Data)
	if err != nil {
		return nil, err
	}

	record := &models.FileRecord{
		FileName:    cand.FileName,
		ContentType: cand.ContentType,
		SizeBytes:   int64(len(cand.Data)),
		Uploader:    uploader,
		UploadedAt:  time.Now(),
		Algorithm:   cryptox.Algorithm,
		Checksum:    checksum,
		Nonce:       nonce,
	}

	if s.objects != nil {
		key := makeStorageKey()
		if err := s.objects.Put(ctx, key, ciphertext); err != nil {
			return nil, fmt.Errorf("object store error: %w", err)
		}
		record.StorageKey = key
	} else {
		record.Ciphertext = ciphertext
	}

	saved, err := fileRepo.Create(ctx, record)
	if err != nil {
		// Create maps a checksum unique violation to ErrDuplicateFile; that
		// covers two identical uploads racing past the pre-insert check.
		return nil, err
	}

	s.audit.Record(ctx, uploader, models.AuditFileEncrypted, saved.ID, "uploaded and encrypted file")
	return saved, nil
}

// Download fetches a stored record, decrypts it and returns the plaintext.
// No re-validation happens on the way out (trust-on-write). An integrity
// failure surfaces as common.ErrIntegrity, distinct from a missing record.
func (s *FileService) Download(ctx context.Context, requester, id string) (*models.FileRecord, []byte, error) {
	record, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ciphertext := record.Ciphertext
	if record.StorageKey != "" {
		if s.objects == nil {
			return nil, nil, fmt.Errorf("%w: record %s is offloaded but no object store is configured",
				common.ErrorInternal, record.ID)
		}
		ciphertext, err = s.objects.Get(ctx, record.StorageKey)
		if err != nil {
			return nil, nil, fmt.Errorf("object store error: %w", err)
		}
	}

	plaintext, err := s.cipher.Decrypt(record.Nonce, ciphertext)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, requester, models.AuditFileDecrypted, record.ID, "decrypted file for viewing")
	return record, plaintext, nil
}

// List returns metadata for all stored files, newest first.
func (s *FileService) List(ctx context.Context) ([]*models.FileRecord, error) {
	return s.repomanager.Files(s.db).List(ctx)
}
