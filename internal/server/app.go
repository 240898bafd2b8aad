// Package server initializes and runs the application server. It opens the
// database, runs migrations, wires the encryption pipeline and the
// authentication lockout tracker, and serves the HTTP API with graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mpfc/securebanking/internal/cryptox"
	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/config"
	"github.com/mpfc/securebanking/internal/server/httpapi"
	"github.com/mpfc/securebanking/internal/server/lockout"
	"github.com/mpfc/securebanking/internal/server/repositories/repomanager"
	"github.com/mpfc/securebanking/internal/server/services"
	"github.com/mpfc/securebanking/internal/server/storage"
)

// lockoutSweepInterval is how often idle lockout entries are evicted.
const lockoutSweepInterval = 15 * time.Minute

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	lockouts *lockout.Tracker
	users    *services.UserService
	handler  http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	cipher, err := cryptox.NewCipherFromBase64(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key error: %w", err)
	}

	var objects storage.ObjectStore
	if cfg.S3Enabled {
		store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("object store init error: %w", err)
		}
		objects = store
	}

	tracker := lockout.NewTracker(cfg.LockoutMaxFailures, cfg.LockoutDuration)

	audit := services.NewAuditService(db, repos, logger)
	incidents := services.NewIncidentService(db, repos, logger)
	fileService := services.NewFileService(db, repos, cipher, objects, audit, incidents, logger)
	userService := services.NewUserService(db, repos, tracker, audit, incidents, cfg, logger)

	handler := httpapi.NewRouter(
		httpapi.NewAuthHandler(userService),
		httpapi.NewFilesHandler(fileService),
		httpapi.NewIncidentsHandler(incidents),
		incidents,
		[]byte(cfg.SecretKey),
		logger,
	)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		repos:    repos,
		lockouts: tracker,
		users:    userService,
		handler:  handler,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if err := app.users.EnsureDefaultUsers(ctx); err != nil {
		return fmt.Errorf("default user seed error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	app.lockouts.StartEvictionLoop(ctx, lockoutSweepInterval, app.config.LockoutEvictAfter, app.logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	return nil
}
