package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/dbx"
	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/repositories/auditlog"
	"github.com/mpfc/securebanking/internal/server/repositories/files"
	"github.com/mpfc/securebanking/internal/server/repositories/incidents"
	"github.com/mpfc/securebanking/internal/server/repositories/users"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeUserRepository struct {
	mu      sync.Mutex
	byLogin map[string]*models.User
	nextID  int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byLogin: make(map[string]*models.User)}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u := *user
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byLogin[u.UserName] = &u
	return &u, nil
}

func (r *fakeUserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeFileRepository struct {
	mu      sync.Mutex
	records []*models.FileRecord
	nextID  int

	createErr error
}

func newFakeFileRepository() *fakeFileRepository {
	return &fakeFileRepository{}
}

func (r *fakeFileRepository) Create(ctx context.Context, file *models.FileRecord) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.records {
		if existing.Checksum == file.Checksum {
			return nil, common.ErrDuplicateFile
		}
	}
	r.nextID++
	f := *file
	f.ID = fmt.Sprintf("file-%d", r.nextID)
	r.records = append(r.records, &f)
	return &f, nil
}

func (r *fakeFileRepository) FindByChecksum(ctx context.Context, checksum string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.records {
		if f.Checksum == checksum {
			return f, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFileRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.records {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFileRepository) List(ctx context.Context) ([]*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.FileRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

type fakeAuditRepository struct {
	mu     sync.Mutex
	events []*models.AuditEvent

	createErr error
}

func (r *fakeAuditRepository) Create(ctx context.Context, event *models.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeAuditRepository) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type fakeIncidentRepository struct {
	mu        sync.Mutex
	incidents []*models.Incident
	acked     []int64
}

func (r *fakeIncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, incident)
	return nil
}

func (r *fakeIncidentRepository) Acknowledge(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acked = append(r.acked, id)
	return nil
}

func (r *fakeIncidentRepository) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.incidents))
	for _, i := range r.incidents {
		out = append(out, i.EventType)
	}
	return out
}

// fakeRepositoryManager vends the in-memory fakes regardless of the DBTX it
// is handed, so services can run without a database.
type fakeRepositoryManager struct {
	users     *fakeUserRepository
	files     *fakeFileRepository
	auditLog  *fakeAuditRepository
	incidents *fakeIncidentRepository
}

func newFakeRepositoryManager() *fakeRepositoryManager {
	return &fakeRepositoryManager{
		users:     newFakeUserRepository(),
		files:     newFakeFileRepository(),
		auditLog:  &fakeAuditRepository{},
		incidents: &fakeIncidentRepository{},
	}
}

func (m *fakeRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepositoryManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepositoryManager) Files(db dbx.DBTX) files.Repository                  { return m.files }
func (m *fakeRepositoryManager) AuditLog(db dbx.DBTX) auditlog.Repository            { return m.auditLog }
func (m *fakeRepositoryManager) Incidents(db dbx.DBTX) incidents.Repository {
	return m.incidents
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr error
	getErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return data, nil
}
