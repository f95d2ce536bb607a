// Package service wires the pipeline together: one Run resolves the window,
// discovers repositories, collects commits, aggregates, and dispatches the
// results to the console, export files, the dashboard server and the
// optional run-history sink.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ghstats/config"
	"ghstats/db"
	"ghstats/discovery"
	"ghstats/github"
	"ghstats/logger"
	"ghstats/scanner"
)

// HostAPI abstracts the GitHub operations the service needs
// (for testability)
type HostAPI interface {
	CurrentUser(ctx context.Context) (string, error)
	discovery.HostClient
	scanner.HostClient
}

// RunStore abstracts the run-history sink (for testability)
type RunStore interface {
	SaveRun(ctx context.Context, run db.RunRecord, repos []db.RepoStatRow, contributors []db.ContributorStatRow) (int64, error)
	Close() error
}

// Service errors
var (
	ErrServiceInit     = fmt.Errorf("service initialization error")
	ErrAuthentication  = fmt.Errorf("authentication failed")
	ErrServiceShutdown = fmt.Errorf("service shutdown error")
)

// Service represents the main application service
type Service struct {
	config *config.Config
	client HostAPI
	store  RunStore
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a new service instance. The run-history sink is only
// opened when saveRun is set and a DSN is configured.
func NewService(saveRun bool) (*Service, error) {
	cfg := config.NewConfig()
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("%w: failed to load configuration: %v", ErrServiceInit, err)
	}

	client := github.NewClient(cfg.GitHubToken, cfg.RateLimit, cfg.PageSize,
		time.Duration(cfg.SearchDelaySecs)*time.Second)

	var store RunStore
	if saveRun {
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("%w: --save requires GHSTATS_DB_DSN", ErrServiceInit)
		}
		database, err := db.New(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open run-history database: %v", ErrServiceInit, err)
		}
		store = database
	}

	// The run is scoped to a signal-aware context so Ctrl-C surfaces
	// partial results instead of dropping everything collected so far.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	svc := &Service{
		config: cfg,
		client: client,
		store:  store,
		out:    os.Stdout,
		ctx:    ctx,
		cancel: cancel,
	}

	logger.Info("service initialized",
		zap.Int("workers", cfg.Workers),
		zap.Int("rate_limit", cfg.RateLimit),
		zap.Bool("run_history", store != nil))
	return svc, nil
}

// Config exposes the loaded configuration (dry-run diagnostics read it).
func (s *Service) Config() *config.Config { return s.config }

// Close releases the service's resources
func (s *Service) Close() error {
	s.cancel()
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("%w: failed to close run-history database: %v", ErrServiceShutdown, err)
		}
	}
	logger.Info("service shut down")
	return nil
}
