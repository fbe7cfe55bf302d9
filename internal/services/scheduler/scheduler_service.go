// Package scheduler runs the sync pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/interfaces"
	"github.com/ternarybob/macrocal/internal/pipeline"
)

const syncRunTimeout = 5 * time.Minute

// Service implements SchedulerService over a cron runner. A mutex guards
// against overlapping runs: if a sync is still in flight when the next
// tick fires, the tick is skipped.
type Service struct {
	syncService *pipeline.Service
	cronExpr    string
	cron        *cron.Cron
	logger      arbor.ILogger
	mu          sync.Mutex
	syncing     bool
	running     bool
}

// NewService creates a new scheduler service
func NewService(syncService *pipeline.Service, cronExpr string, logger arbor.ILogger) interfaces.SchedulerService {
	return &Service{
		syncService: syncService,
		cronExpr:    cronExpr,
		cron:        cron.New(),
		logger:      logger,
	}
}

// Start begins periodic syncing on the configured cron expression
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.cronExpr, s.runScheduledSync); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("cron_expr", s.cronExpr).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for an in-flight sync to finish
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// TriggerNow runs a sync immediately, outside the cron schedule
func (s *Service) TriggerNow() {
	go s.runScheduledSync()
}

// IsRunning reports whether the cron runner is active
func (s *Service) IsRunning() bool {
	return s.running
}

func (s *Service) runScheduledSync() {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous sync still in progress, skipping this run")
		return
	}
	s.syncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.syncService.Run(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled sync failed")
		return
	}

	s.logger.Info().
		Int("upserted", result.Upserted).
		Int("surprises", result.Surprises).
		Str("duration", time.Since(start).Round(time.Millisecond).String()).
		Msg("Scheduled sync complete")
}
