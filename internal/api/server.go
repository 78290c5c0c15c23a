// Package api serves the JSON HTTP interface over the planning data: tenants,
// the project and product hierarchies, and on-demand repair.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/yardplan/internal/cascade"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB     *gorm.DB
	Engine *cascade.Engine
	Port   int
	Out    io.Writer
	Logger *slog.Logger
}

// Start launches the API server. It blocks until ctx is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("api: db is required")
	}
	if opts.Engine == nil {
		return fmt.Errorf("api: engine is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(opts.DB, opts.Engine, opts.Logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with every route registered. If logger is
// nil, slog.Default() is used.
func NewRouter(db *gorm.DB, eng *cascade.Engine, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, &env{db: db, eng: eng, logger: logger})
	return router
}

// env carries the dependencies shared by all handlers.
type env struct {
	db     *gorm.DB
	eng    *cascade.Engine
	logger *slog.Logger
}
