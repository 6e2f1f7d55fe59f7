// Package app wires configuration, storage and the report pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-reports/internal/config"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
	"github.com/riskibarqy/match-reports/internal/infrastructure/export/csvfile"
	"github.com/riskibarqy/match-reports/internal/infrastructure/provider/jsondump"
	"github.com/riskibarqy/match-reports/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-reports/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-reports/internal/layout"
	"github.com/riskibarqy/match-reports/internal/observability"
	idgen "github.com/riskibarqy/match-reports/internal/platform/id"
	"github.com/riskibarqy/match-reports/internal/platform/logging"
	"github.com/riskibarqy/match-reports/internal/platform/resilience"
	"github.com/riskibarqy/match-reports/internal/usecase"
)

type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Layout  layout.Layout
	Service *usecase.ReportService
	Repo    teamstats.Repository
	CSV     *csvfile.Writer

	db       *sqlx.DB
	pprof    *http.Server
	shutdown []func(context.Context) error
}

// New builds the pipeline. Observability is started only when withTelemetry
// is set so read-only commands stay quiet.
func New(cfg config.Config, logger *logging.Logger, withTelemetry bool) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	l, err := layout.Load(cfg.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, Layout: l}
	if withTelemetry {
		if err := a.startTelemetry(); err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
	}

	sinks := make([]usecase.RecordSink, 0, 1)
	if cfg.CSVEnabled {
		writer, err := csvfile.NewWriter(cfg.OutputDir, cfg.ShotsFile, cfg.StatsFile, l.PublishedColumns())
		if err != nil {
			_ = a.Close(context.Background())
			return nil, fmt.Errorf("init csv sink: %w", err)
		}
		a.CSV = writer
		sinks = append(sinks, writer)
	}

	if cfg.DBEnabled {
		db, err := openDB(cfg)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.db = db
		a.Repo = postgres.NewMatchRepository(db)
	} else {
		a.Repo = memory.NewMatchRepository()
	}

	svc, err := usecase.NewReportService(
		jsondump.NewProvider(),
		l,
		a.Repo,
		sinks,
		idgen.NewRunIDGenerator(),
		usecase.ReportConfig{
			FileTimeout:  cfg.FileTimeout,
			Workers:      cfg.Workers,
			SkipExisting: cfg.DBEnabled,
			SinkBreaker: resilience.BreakerConfig{
				FailureThreshold: cfg.SinkFailureThreshold,
				Cooldown:         cfg.SinkCooldown,
			},
		},
		logger,
	)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, fmt.Errorf("init report service: %w", err)
	}
	a.Service = svc

	logger.Debug("app initialized",
		"layout", l.Version,
		"csv_enabled", cfg.CSVEnabled,
		"db_enabled", cfg.DBEnabled,
		"workers", cfg.Workers,
	)

	return a, nil
}

func (a *App) startTelemetry() error {
	stopUptrace, err := observability.InitUptrace(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	a.shutdown = append(a.shutdown, stopUptrace)

	stopPyroscope, err := observability.InitPyroscope(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	a.shutdown = append(a.shutdown, func(context.Context) error { return stopPyroscope() })

	srv, err := observability.StartPprofServer(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("start pprof: %w", err)
	}
	a.pprof = srv

	return nil
}

// Close releases the database and flushes telemetry in reverse start order.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
		a.db = nil
	}
	if err := observability.StopPprofServer(ctx, a.pprof, a.Logger); err != nil {
		errs = append(errs, fmt.Errorf("stop pprof: %w", err))
	}
	a.pprof = nil
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdown = nil

	return errors.Join(errs...)
}
