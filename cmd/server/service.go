package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Davidmarkwilcox/ScannerApp/internal/config"
	"github.com/Davidmarkwilcox/ScannerApp/internal/index"
	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/locks"
	"github.com/Davidmarkwilcox/ScannerApp/internal/middleware"
	"github.com/Davidmarkwilcox/ScannerApp/internal/ocr"
	"github.com/Davidmarkwilcox/ScannerApp/internal/pages"
	"github.com/Davidmarkwilcox/ScannerApp/internal/routes"
	"github.com/Davidmarkwilcox/ScannerApp/internal/server"
	"github.com/Davidmarkwilcox/ScannerApp/internal/store"
	"github.com/Davidmarkwilcox/ScannerApp/pkg/logging"
	pkgroutes "github.com/Davidmarkwilcox/ScannerApp/pkg/routes"
)

// Service coordinates the lifecycle of all subsystems.
type Service struct {
	ctx        context.Context
	cancel     context.CancelFunc
	shutdownWg sync.WaitGroup

	logger *slog.Logger
	server server.System
}

// NewService creates and initializes the service with all subsystems.
func NewService(cfg *config.Config) (*Service, error) {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logging.New(&cfg.Logging)

	lay, err := layout.New(&cfg.Storage)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("layout init failed: %w", err)
	}

	loader := pages.NewLoader(lay, logger)
	texts := ocr.NewStore(lay)
	lockTable := locks.NewKeyed()
	draftStore := store.New(lay, loader, texts, cfg.Render, lockTable, logger)
	docIndex := index.New(lay, lockTable, logger)

	routeSys := routes.New(logger)
	routeSys.RegisterRoute(pkgroutes.Route{Method: "GET", Pattern: "/healthz", Handler: handleHealthCheck})
	routeSys.RegisterGroup(store.NewHandler(draftStore, loader, logger, cfg.Storage.MaxUploadSizeBytes()).Routes())
	routeSys.RegisterGroup(index.NewHandler(docIndex, logger).Routes())

	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.Logger(logger))
	middlewareSys.Use(middleware.TrimSlash())
	handler := middlewareSys.Apply(routeSys.Build())

	serverSys := server.New(&cfg.Server, cfg.ShutdownTimeoutDuration(), handler, logger)

	return &Service{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		server: serverSys,
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Service) Start() error {
	s.logger.Info("starting service")

	if err := s.server.Start(s.ctx, &s.shutdownWg); err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}

	s.logger.Info("service started")
	return nil
}

// Shutdown gracefully stops all subsystems within the provided context deadline.
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating shutdown")

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all subsystems shut down successfully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
