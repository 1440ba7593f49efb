// Package server wires the files manager together: it opens the metadata
// database, session store and blob store, builds the services and runs the
// HTTP API until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobs"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
)

var (
	openDB               = repomanager.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager

	logOutput io.Writer = os.Stdout
)

const appName = "files manager"

// printBanner writes the application name in large ASCII letters.
func printBanner(w io.Writer) {
	fmt.Fprintln(w, figure.NewFigure(appName, "cybermedium", true).String())
}

type closer struct {
	name  string
	close func() error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	server  *httpapi.Server
	closers []closer
}

// NewApp opens every store named by cfg and builds the HTTP server. Stores
// opened before a failure are closed again.
func NewApp(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	logger, err := logging.New(logging.Options{
		Backend: cfg.LogBackend,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  logOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: cfg, logger: logger.With("module", "app")}
	defer func() {
		if err != nil {
			app.close(ctx)
		}
	}()

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, closer{"database", db.Close})

	rm := newRepositoryManager()
	if err = rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	sessionStore, err := sessions.New(sessions.Options{Type: cfg.SessionStore, Dir: cfg.BadgerDir})
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}
	app.closers = append(app.closers, closer{"session store", sessionStore.Close})

	blobStore, err := blobs.New(ctx, blobs.Options{
		Type: cfg.BlobStore,
		Dir:  cfg.FolderPath,
		S3: blobs.S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
			KeyPrefix:    cfg.S3KeyPrefix,
			UsePathStyle: cfg.S3UsePathStyle,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}
	app.closers = append(app.closers, closer{"blob store", blobStore.Close})

	app.server = newHTTPServer(cfg, logger, db, rm, sessionStore, blobStore)
	return app, nil
}

func newHTTPServer(cfg *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, ss sessions.Store, bs blobs.Store) *httpapi.Server {
	auth := services.NewAuthService(db, rm, ss, cfg.SessionTTL, logger)
	users := services.NewUserService(db, rm, logger)
	files := services.NewFileService(db, rm, bs, cfg.PageSize, logger)
	status := services.NewStatusService(db, rm, ss)

	return httpapi.NewServer(httpapi.Options{
		Address:         cfg.HTTPAddr,
		CORSOrigins:     cfg.CORSOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger, auth, users, files, status)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// close releases stores in reverse order of opening.
func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		c := app.closers[i]
		if err := c.close(); err != nil {
			app.logger.Error(ctx, "close failed", "resource", c.name, "error", err)
		}
	}
	app.closers = nil
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then shuts the server down and closes the stores.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	if strings.EqualFold(app.config.LogFormat, "text") {
		printBanner(logOutput)
	}
	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
	return runErr
}
