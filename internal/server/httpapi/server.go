// Package httpapi exposes the files manager over HTTP/JSON using a chi router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Authenticator is the session side of services.AuthService.
type Authenticator interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
	ResolveToken(ctx context.Context, token string) (string, error)
	RevokeToken(ctx context.Context, token string) error
}

// UserRegistry is implemented by services.UserService.
type UserRegistry interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// FileManager is implemented by services.FileService.
type FileManager interface {
	CreateEntry(ctx context.Context, userID string, in services.CreateEntryInput) (*models.FileRecord, error)
	GetEntry(ctx context.Context, userID, id string) (*models.FileRecord, error)
	ListEntries(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.FileRecord, error)
	SetVisibility(ctx context.Context, userID, id string, isPublic bool) (*models.FileRecord, error)
	DownloadFile(ctx context.Context, requesterID, id string) (*services.Download, error)
}

// StatusReporter is implemented by services.StatusService.
type StatusReporter interface {
	Status(ctx context.Context) services.Status
	Stats(ctx context.Context) (*services.Stats, error)
}

// Options configures a Server.
type Options struct {
	Address         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type Server struct {
	opts   Options
	auth   Authenticator
	users  UserRegistry
	files  FileManager
	status StatusReporter
	logger logging.Logger
}

func NewServer(opts Options, l logging.Logger, a Authenticator, u UserRegistry, f FileManager, st StatusReporter) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		opts:   opts,
		auth:   a,
		users:  u,
		files:  f,
		status: st,
		logger: l.With("module", "http_server"),
	}
}

// Handler builds the router with every route and middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", tokenHeader},
		MaxAge:         300,
	}))

	r.Get("/status", s.handleStatus)
	r.Get("/stats", s.handleStats)
	r.Post("/users", s.handleRegister)
	r.Get("/connect", s.handleConnect)
	r.Get("/disconnect", s.handleDisconnect)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/users/me", s.handleMe)
		r.Post("/files", s.handleCreateEntry)
		r.Get("/files", s.handleListEntries)
		r.Get("/files/{id}", s.handleGetEntry)
		r.Put("/files/{id}/publish", s.handleSetVisibility(true))
		r.Put("/files/{id}/unpublish", s.handleSetVisibility(false))
	})

	r.With(s.optionalAuth).Get("/files/{id}/data", s.handleDownload)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
