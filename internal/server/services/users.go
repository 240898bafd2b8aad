package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mpfc/securebanking/internal/common"
	"github.com/mpfc/securebanking/internal/dbx"
	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/auth"
	"github.com/mpfc/securebanking/internal/server/config"
	"github.com/mpfc/securebanking/internal/server/lockout"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/repositories/repomanager"
)

// UserService authenticates staff and guards the login boundary with the
// lockout tracker. Usernames are case-insensitive: they are stored and
// looked up lower-cased.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	lockouts    *lockout.Tracker
	audit       *AuditService
	incidents   *IncidentService
	log         logging.Logger

	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, lockouts *lockout.Tracker,
	audit *AuditService, incidents *IncidentService, cfg *config.Config,
	log logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		lockouts:                    lockouts,
		audit:                       audit,
		incidents:                   incidents,
		log:                         log,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// defaultAccounts are seeded at startup so a fresh deployment has a working
// login for each role. Operators are expected to rotate these credentials.
var defaultAccounts = []struct {
	username string
	password string
	role     string
}{
	{"admin", "Admin@123", models.RoleAdmin},
	{"officer", "Officer@123", models.RoleOfficer},
}

// EnsureDefaultUsers creates the built-in admin and records-officer accounts
// unless they already exist. The lookup and insert run in one transaction so
// concurrent replicas starting together cannot double-insert.
func (s *UserService) EnsureDefaultUsers(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		for _, a := range defaultAccounts {
			_, err := repo.GetUserByLogin(ctx, a.username)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("error looking up default user %q: %w", a.username, err)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("error hashing default password: %w", err)
			}
			user := &models.User{UserName: a.username, PasswordHash: hash, Role: a.role}
			if _, err := repo.Create(ctx, user); err != nil {
				return fmt.Errorf("error seeding default user %q: %w", a.username, err)
			}
			s.log.Warn(ctx, "seeded default account, rotate its password",
				"username", a.username, "role", a.role)
		}
		return nil
	})
}

// Register creates a staff account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleOfficer {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorInternal, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		UserName:     strings.ToLower(strings.TrimSpace(username)),
		PasswordHash: hash,
		Role:         role,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and returns a signed access token. The lockout
// tracker is consulted first: a locked identity is refused without touching
// the password. Every failure feeds the tracker; the failure that sets a
// lock raises an ACCOUNT_LOCKED incident. Success resets the tracker.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	login := strings.ToLower(strings.TrimSpace(username))

	if s.lockouts.IsLocked(login) {
		return "", common.ErrAccountLocked
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.recordFailure(ctx, login)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		s.recordFailure(ctx, login)
		return "", common.ErrorUnauthorized
	}

	s.lockouts.Reset(login)

	token, err := auth.GenerateToken(user.UserName, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	s.audit.Record(ctx, user.UserName, models.AuditLoginSuccess, user.ID, "successful login")
	return token, nil
}

// IsLocked reports whether an identity is currently barred from
// authenticating.
func (s *UserService) IsLocked(username string) bool {
	return s.lockouts.IsLocked(username)
}

func (s *UserService) recordFailure(ctx context.Context, login string) {
	if s.lockouts.RecordFailure(login) == lockout.NowLocked {
		until, _ := s.lockouts.LockedUntil(login)
		s.incidents.Record(ctx, login, models.IncidentAccountLocked,
			fmt.Sprintf("locked out until %s after repeated failures", until.Format(time.RFC3339)))
		s.log.Warn(ctx, "account locked", "username", login, "until", until)
	}
}
