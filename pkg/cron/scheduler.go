// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/clinsalud/registro-clinico/internal/domain/roster"
)

// Scheduler reloads the padrón file on a schedule so a long-running service
// picks up roster edits without a restart.
type Scheduler struct {
	cron       *cron.Cron
	rosterSvc  *roster.Service
	rosterPath string
	logger     *slog.Logger
}

// NewScheduler creates a scheduler that refreshes the roster from the given file.
func NewScheduler(rosterSvc *roster.Service, rosterPath string, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:       c,
		rosterSvc:  rosterSvc,
		rosterPath: rosterPath,
		logger:     logger,
	}
}

// Start registers the refresh job under the given cron spec and begins running it.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.refreshRoster)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("spec", spec),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers a roster refresh (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshRoster()
}

func (s *Scheduler) refreshRoster() {
	s.logger.Info("starting roster refresh", slog.String("path", s.rosterPath))

	result, err := s.rosterSvc.LoadFile(s.rosterPath)
	if err != nil {
		s.logger.Error("roster refresh failed",
			slog.String("path", s.rosterPath),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("roster refresh completed",
		slog.Int("entries", result.ParsedRows),
		slog.Int("skipped", result.SkippedRows),
	)
}
