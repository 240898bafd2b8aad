package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/server/auth"
	"github.com/mpfc/securebanking/internal/server/config"
	"github.com/mpfc/securebanking/internal/server/lockout"
	"github.com/mpfc/securebanking/internal/server/models"
)

type userServiceFixture struct {
	svc      *UserService
	repos    *fakeRepositoryManager
	lockouts *lockout.Tracker
	cfg      *config.Config
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"

	repos := newFakeRepositoryManager()
	log := discardLogger()
	tracker := lockout.NewTracker(cfg.LockoutMaxFailures, cfg.LockoutDuration)

	audit := NewAuditService(nil, repos, log)
	incidents := NewIncidentService(nil, repos, log)

	return &userServiceFixture{
		svc:      NewUserService(nil, repos, tracker, audit, incidents, cfg, log),
		repos:    repos,
		lockouts: tracker,
		cfg:      cfg,
	}
}

func (f *userServiceFixture) register(t *testing.T, username, password, role string) *models.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), username, password, role)
	require.NoError(t, err)
	return u
}

func TestUserService_Login(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	f.register(t, "officer1", "s3cret", models.RoleOfficer)

	token, err := f.svc.Login(ctx, "officer1", "s3cret")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, []byte(f.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "officer1", claims.Username)
	assert.Equal(t, models.RoleOfficer, claims.Role)

	assert.Equal(t, []string{models.AuditLoginSuccess}, f.repos.auditLog.actions())
}

func TestUserService_LoginCaseInsensitive(t *testing.T) {
	f := newUserServiceFixture(t)

	f.register(t, "Officer1", "s3cret", models.RoleOfficer)

	token, err := f.svc.Login(context.Background(), "OFFICER1", "s3cret")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, []byte(f.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "officer1", claims.Username)
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	f := newUserServiceFixture(t)

	f.register(t, "officer1", "s3cret", models.RoleOfficer)

	_, err := f.svc.Login(context.Background(), "officer1", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, f.repos.auditLog.actions())
}

func TestUserService_LoginUnknownUser(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUserService_LockoutAfterRepeatedFailures(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	f.register(t, "officer1", "s3cret", models.RoleOfficer)

	for i := 0; i < f.cfg.LockoutMaxFailures; i++ {
		_, err := f.svc.Login(ctx, "officer1", "wrong")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}

	assert.True(t, f.svc.IsLocked("officer1"))
	assert.Equal(t, []string{models.IncidentAccountLocked}, f.repos.incidents.eventTypes())

	// Correct credentials are refused while the lock holds.
	_, err := f.svc.Login(ctx, "officer1", "s3cret")
	assert.ErrorIs(t, err, common.ErrAccountLocked)
}

func TestUserService_LockoutCountsMixedCaseAttempts(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	f.register(t, "officer1", "s3cret", models.RoleOfficer)

	variants := []string{"officer1", "OFFICER1", "Officer1", "oFFICER1", "officeR1"}
	for _, v := range variants {
		_, err := f.svc.Login(ctx, v, "wrong")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}

	assert.True(t, f.svc.IsLocked("officer1"))
}

func TestUserService_SuccessResetsFailureCount(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	f.register(t, "officer1", "s3cret", models.RoleOfficer)

	for i := 0; i < f.cfg.LockoutMaxFailures-1; i++ {
		_, err := f.svc.Login(ctx, "officer1", "wrong")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}

	_, err := f.svc.Login(ctx, "officer1", "s3cret")
	require.NoError(t, err)

	// The counter restarted, so the next run of failures starts from zero.
	for i := 0; i < f.cfg.LockoutMaxFailures-1; i++ {
		_, err := f.svc.Login(ctx, "officer1", "wrong")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}
	assert.False(t, f.svc.IsLocked("officer1"))
}

// withMockDB swaps the fixture's nil DB for a sqlmock handle so transactional
// paths can run against the in-memory fakes.
func (f *userServiceFixture) withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f.svc.db = db
	return mock
}

func TestUserService_EnsureDefaultUsers(t *testing.T) {
	f := newUserServiceFixture(t)
	mock := f.withMockDB(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, f.svc.EnsureDefaultUsers(ctx))

	admin, err := f.repos.users.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte("Admin@123")))

	officer, err := f.repos.users.GetUserByLogin(ctx, "officer")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOfficer, officer.Role)

	// A second run finds both accounts and seeds nothing new.
	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, f.svc.EnsureDefaultUsers(ctx))
	again, err := f.repos.users.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SeededAccountsCanLogin(t *testing.T) {
	f := newUserServiceFixture(t)
	mock := f.withMockDB(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, f.svc.EnsureDefaultUsers(ctx))

	token, err := f.svc.Login(ctx, "admin", "Admin@123")
	require.NoError(t, err)
	claims, err := auth.ParseToken(token, []byte(f.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = f.svc.Login(ctx, "officer", "Officer@123")
	require.NoError(t, err)
}

func TestUserService_RegisterRejectsUnknownRole(t *testing.T) {
	f := newUserServiceFixture(t)

	_, err := f.svc.Register(context.Background(), "intruder", "pw", "SUPERUSER")
	assert.Error(t, err)
}
