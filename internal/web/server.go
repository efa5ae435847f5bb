// Package web provides the HTTP server and handlers for the car owner
// registry API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"carowners/internal/config"
	"carowners/internal/core"
	mw "carowners/internal/web/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// OwnerStore is the owner repository surface the handlers consume.
type OwnerStore interface {
	List(ctx context.Context) ([]core.Owner, error)
	GetByID(ctx context.Context, id int64) (core.Owner, error)
	Create(ctx context.Context, params core.NewOwner) (core.Owner, error)
	Update(ctx context.Context, id int64, u core.OwnerUpdate) (core.Owner, error)
	Delete(ctx context.Context, id int64) error
}

// CarStore is the car repository surface the handlers consume.
type CarStore interface {
	List(ctx context.Context, ownerID *int64) ([]core.Car, error)
	GetByID(ctx context.Context, id int64) (core.Car, error)
	Create(ctx context.Context, params core.NewCar) (core.Car, error)
	Update(ctx context.Context, id int64, u core.CarUpdate) (core.Car, error)
	Delete(ctx context.Context, id int64) error
}

// CSVImporter is the bulk-import surface the upload handlers consume.
type CSVImporter interface {
	ImportOwners(ctx context.Context, data []byte) (core.ImportSummary, error)
	ImportCars(ctx context.Context, data []byte) (core.ImportSummary, error)
}

// Server is the HTTP server for the registry API.
type Server struct {
	owners   OwnerStore
	cars     CarStore
	importer CSVImporter
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
}

// NewServer wires middleware and routes around the given stores.
func NewServer(owners OwnerStore, cars CarStore, importer CSVImporter, cfg *config.Config) *Server {
	s := &Server{
		owners:   owners,
		cars:     cars,
		importer: importer,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes. Static paths are registered
// before the {id} wildcards.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)

	s.router.Route("/car-owners", func(r chi.Router) {
		r.Get("/", s.handleListOwners)
		r.Get("/export-csv", s.handleExportOwners)
		r.Post("/", s.handleCreateOwner)
		r.Post("/upload-csv", s.handleUploadOwners)
		r.Get("/{id}", s.handleGetOwner)
		r.Put("/{id}", s.handleUpdateOwner)
		r.Delete("/{id}", s.handleDeleteOwner)
	})

	s.router.Route("/cars", func(r chi.Router) {
		r.Get("/", s.handleListCars)
		r.Get("/export-csv", s.handleExportCars)
		r.Post("/", s.handleCreateCar)
		r.Post("/upload-csv", s.handleUploadCars)
		r.Get("/{id}", s.handleGetCar)
		r.Put("/{id}", s.handleUpdateCar)
		r.Delete("/{id}", s.handleDeleteCar)
	})
}

// handleRoot returns the service banner.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to Car Owner API",
		"version": "1.0.0",
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
