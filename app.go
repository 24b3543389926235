package main

import (
	"fmt"

	"github.com/example/genius/internal/config"
	"github.com/example/genius/internal/database"
	"github.com/example/genius/internal/logger"
	"github.com/example/genius/internal/metrics"
	"github.com/example/genius/internal/scheduler"
	"github.com/example/genius/internal/spaced_repetition"
	"go.uber.org/zap"
)

// app wires configuration, storage and the engine for one command run
type app struct {
	cfg       config.Config
	log       *zap.Logger
	engine    *spaced_repetition.Engine
	reviews   *database.ReviewRepository
	schedules *database.ScheduleRepository
	metrics   *metrics.Metrics
	scheduler *scheduler.Scheduler
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, err
	}

	engine, err := spaced_repetition.NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	source := cfg.DBPath
	if cfg.DBType == "postgres" {
		source = cfg.DatabaseURL
	}
	db, err := database.Connect(cfg.DBType, source)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		engine:    engine,
		reviews:   database.NewReviewRepository(db),
		schedules: database.NewScheduleRepository(db),
		metrics:   metrics.New(),
	}
	a.scheduler = scheduler.New(engine, a.reviews, a.schedules, scheduler.Options{
		Every:   cfg.ScheduleEvery,
		Metrics: a.metrics,
		Logger:  log,
	})
	return a, nil
}

func (a *app) close() {
	if err := database.Close(); err != nil {
		a.log.Warn("Error closing database", zap.Error(err))
	}
	_ = a.log.Sync()
}
