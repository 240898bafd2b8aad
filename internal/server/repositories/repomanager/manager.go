package repomanager

import (
	"context"
	"database/sql"

	"github.com/mpfc/securebanking/internal/dbx"
	"github.com/mpfc/securebanking/internal/server/repositories/auditlog"
	"github.com/mpfc/securebanking/internal/server/repositories/files"
	"github.com/mpfc/securebanking/internal/server/repositories/incidents"
	"github.com/mpfc/securebanking/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
	Incidents(db dbx.DBTX) incidents.Repository
}
