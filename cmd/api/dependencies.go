package main

import (
	"fmt"
	"log/slog"

	"github.com/clinsalud/registro-clinico/internal/api"
	"github.com/clinsalud/registro-clinico/internal/domain/classification"
	"github.com/clinsalud/registro-clinico/internal/domain/export"
	"github.com/clinsalud/registro-clinico/internal/domain/record"
	"github.com/clinsalud/registro-clinico/internal/domain/report"
	"github.com/clinsalud/registro-clinico/internal/domain/roster"
	"github.com/clinsalud/registro-clinico/pkg/config"
	"github.com/clinsalud/registro-clinico/pkg/cron"
	"github.com/clinsalud/registro-clinico/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Services
	Classifier    *classification.Classifier
	RosterService *roster.Service
	Engine        *record.Engine
	Sheet         *record.Sheet
	Aggregator    *report.Aggregator
	FileStorage   storage.Storage
	ExportService *export.Service
	Scheduler     *cron.Scheduler

	// Handlers
	Handlers api.Handlers
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initServices initializes the domain services
func (d *Dependencies) initServices() error {
	// Classification with the built-in condition dictionaries
	d.Classifier = classification.New(classification.DefaultRuleSet())

	rosterSvc, err := roster.NewService(d.Logger)
	if err != nil {
		return fmt.Errorf("failed to init roster service: %w", err)
	}
	d.RosterService = rosterSvc

	// Seed the roster from the configured padrón file, if any
	if d.Config.Roster.Path != "" {
		if _, err := d.RosterService.LoadFile(d.Config.Roster.Path); err != nil {
			return fmt.Errorf("failed to load roster from %s: %w", d.Config.Roster.Path, err)
		}
	}

	// Trigger engine and the editing pool it drives
	d.Engine = record.NewEngine(d.Classifier, d.RosterService)
	d.Sheet = record.NewSheet(d.Engine, d.Config.Sheet.Rows)

	d.Aggregator = report.NewAggregator(d.Logger)

	// File storage archives generated exports
	fileStorage, err := storage.NewLocalStorage(d.Config.Storage.ExportPath)
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage
	d.ExportService = export.NewService(d.FileStorage, d.Logger)

	// Scheduled roster refresh, only when both path and cron spec are set
	if d.Config.Roster.Path != "" && d.Config.Roster.RefreshCron != "" {
		d.Scheduler = cron.NewScheduler(d.RosterService, d.Config.Roster.Path, d.Logger)
	}

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes the HTTP handlers
func (d *Dependencies) initHandlers() {
	d.Handlers = api.Handlers{
		Sheet:  api.NewSheetHandler(d.Sheet, d.Logger),
		Roster: api.NewRosterHandler(d.RosterService, d.Logger),
		Report: api.NewReportHandler(d.Aggregator, d.Sheet, d.Logger),
		Export: api.NewExportHandler(d.ExportService, d.Sheet, d.Logger),
	}

	d.Logger.Info("handlers initialized")
}

// Close releases resources held by the dependencies
func (d *Dependencies) Close() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.RosterService != nil {
		if err := d.RosterService.Close(); err != nil {
			d.Logger.Warn("failed to close roster service", slog.Any("error", err))
		}
	}
}
