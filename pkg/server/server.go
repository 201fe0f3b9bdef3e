// Package server exposes the document operations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pagevault/pkg/log"
	"pagevault/pkg/models"
)

const (
	shutdownTimeout = 10 * time.Second
)

// Service is the operational surface the handlers call.
type Service interface {
	Import(ctx context.Context, paths []string) []models.ImportOutcome
	CreateProject(ctx context.Context, name string) (*models.ProjectState, error)
	GetProject(ctx context.Context, id string) (*models.ProjectState, error)
	ListProjects(ctx context.Context) ([]models.ProjectState, error)
	UpdateProjectState(ctx context.Context, id string, assets models.PageAssets) (*models.ProjectState, error)
	ExportProject(ctx context.Context, id, name string, assets models.PageAssets) (*models.OutputRecord, error)
	DeleteProject(ctx context.Context, id string) error
	ListSources(ctx context.Context) ([]models.SourceDocument, error)
	DeleteSource(ctx context.Context, id string) error
	ListOutputs(ctx context.Context, projectID string) ([]models.OutputRecord, error)
	DeleteFile(ctx context.Context, path string) error
	RevealInFileExplorer(ctx context.Context, path string) error
	GetDiskUsage(path string) (int64, error)
	AssetPath(sourceID string, page int) (string, bool)
	Status(ctx context.Context) (*models.VaultStatus, error)
}

// Server is the HTTP front of a Service.
type Server struct {
	echo    *echo.Echo
	service Service
	version string
	started time.Time
}

// New creates a Server with its routes registered.
func New(service Service, version string) *Server {
	srv := &Server{
		echo:    echo.New(),
		service: service,
		version: version,
		started: time.Now(),
	}
	srv.setupRoutes()
	return srv
}

// Handler returns the router, for tests and embedding.
func (srv *Server) Handler() http.Handler {
	return srv.echo
}

// Start serves on addr until SIGINT or SIGTERM, then shuts down gracefully.
func (srv *Server) Start(addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", srv.version).Msg("Starting server")
		if err := srv.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("Server startup failed")
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Signal received")
	}

	return srv.Shutdown()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (srv *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (srv *Server) setupRoutes() {
	srv.echo.HideBanner = true
	srv.echo.HidePort = true
	srv.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	srv.echo.Use(middleware.Recover())

	srv.echo.GET("/", srv.serveSwaggerUI)
	srv.echo.GET("/openapi.yml", srv.serveSwaggerSpec)

	srv.echo.POST("/import", srv.importFiles)

	srv.echo.GET("/projects", srv.listProjects)
	srv.echo.POST("/projects", srv.createProject)
	srv.echo.GET("/projects/:id", srv.getProject)
	srv.echo.DELETE("/projects/:id", srv.deleteProject)
	srv.echo.PUT("/projects/:id/state", srv.updateProjectState)
	srv.echo.POST("/projects/:id/export", srv.exportProject)

	srv.echo.GET("/sources", srv.listSources)
	srv.echo.DELETE("/sources/:id", srv.deleteSource)
	srv.echo.GET("/sources/:id/thumbnail", srv.sourceThumbnail)

	srv.echo.GET("/outputs", srv.listOutputs)
	srv.echo.DELETE("/files", srv.deleteFile)
	srv.echo.POST("/files/reveal", srv.revealFile)
	srv.echo.GET("/usage", srv.diskUsage)
	srv.echo.GET("/status", srv.getStatus)
}
