package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mpfc/securebanking/internal/logging"
	"github.com/mpfc/securebanking/internal/server/models"
	"github.com/mpfc/securebanking/internal/server/services"
)

// NewRouter mounts the API:
//
//	POST /api/login               → AuthHandler.Login (public)
//	POST /api/files               → FilesHandler.Upload (any authenticated role)
//	GET  /api/files               → FilesHandler.List (ADMIN)
//	GET  /api/files/{id}          → FilesHandler.Download (ADMIN)
//	POST /api/incidents/{id}/ack  → IncidentsHandler.Acknowledge (ADMIN)
func NewRouter(
	authHandler *AuthHandler,
	filesHandler *FilesHandler,
	incidentsHandler *IncidentsHandler,
	incidents *services.IncidentService,
	secretKey []byte,
	log logging.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(withRequestLogging(log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(secretKey))

			r.Post("/files", filesHandler.Upload)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(models.RoleAdmin, incidents))

				r.Get("/files", filesHandler.List)
				r.Get("/files/{id}", filesHandler.Download)
				r.Post("/incidents/{id}/ack", incidentsHandler.Acknowledge)
			})
		})
	})

	return r
}

func withRequestLogging(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
