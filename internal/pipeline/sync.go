package pipeline

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/interfaces"
	"github.com/ternarybob/macrocal/internal/models"
)

// SyncError records one event that failed to persist during a sync pass.
type SyncError struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// SyncResult summarizes one full sync pass.
type SyncResult struct {
	Scraped   int            `json:"scraped"`
	Upserted  int            `json:"upserted"`
	Surprises int            `json:"surprises"`
	BySource  map[string]int `json:"by_source"`
	Errors    []SyncError    `json:"errors,omitempty"`
}

// Service runs the full ingest cycle: scrape all sources, upsert each
// event, and raise notifications for forecast surprises.
type Service struct {
	orchestrator  *Orchestrator
	events        interfaces.EventStorage
	notifications interfaces.NotificationStorage
	logger        arbor.ILogger
}

// NewService creates the sync service.
func NewService(orchestrator *Orchestrator, events interfaces.EventStorage, notifications interfaces.NotificationStorage, logger arbor.ILogger) *Service {
	return &Service{
		orchestrator:  orchestrator,
		events:        events,
		notifications: notifications,
		logger:        logger,
	}
}

// Run executes one sync pass. It returns an error only when every source
// failed and nothing was scraped; individual event failures are collected
// in the result so one bad record never aborts the pass.
func (s *Service) Run(ctx context.Context) (*SyncResult, error) {
	scraped, stats := s.orchestrator.Scrape(ctx)

	if len(scraped) == 0 && stats.AllFailed() {
		return nil, fmt.Errorf("all %d calendar sources failed", stats.Adapters)
	}

	result := &SyncResult{
		Scraped:  len(scraped),
		BySource: stats.BySource,
	}

	for i := range scraped {
		event := &scraped[i]
		if err := s.processEvent(ctx, event, result); err != nil {
			s.logger.Warn().
				Err(err).
				Str("event", event.EventSlug).
				Msg("Event sync failed, continuing")
			result.Errors = append(result.Errors, SyncError{
				Event: event.NaturalKey(),
				Error: err.Error(),
			})
		}
	}

	s.logger.Info().
		Int("scraped", result.Scraped).
		Int("upserted", result.Upserted).
		Int("surprises", result.Surprises).
		Int("errors", len(result.Errors)).
		Msg("Sync pass complete")

	return result, nil
}

func (s *Service) processEvent(ctx context.Context, event *models.ScrapedEvent, result *SyncResult) error {
	prior, err := s.events.FindByNaturalKey(ctx, event.EventSlug, event.DateTime)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	surprise := DetectSurprise(prior, event)

	if _, err := s.events.Upsert(ctx, event); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	result.Upserted++

	if surprise == nil {
		return nil
	}

	if err := s.notifications.CreateNotification(ctx, s.buildNotification(event, surprise)); err != nil {
		return fmt.Errorf("notification: %w", err)
	}
	result.Surprises++

	s.logger.Info().
		Str("event", event.EventSlug).
		Str("direction", surprise.Direction).
		Str("pct", fmt.Sprintf("%.1f", surprise.Pct)).
		Msg("Forecast surprise detected")

	return nil
}

func (s *Service) buildNotification(event *models.ScrapedEvent, surprise *Surprise) *models.Notification {
	verdict := "Beat"
	if surprise.Direction == "below" {
		verdict = "Miss"
	}

	return &models.Notification{
		Type:  models.NotificationTypeSurprise,
		Title: fmt.Sprintf("%s: %s", event.EventName, verdict),
		Body: fmt.Sprintf("Actual %s vs Forecast %s (%.1f%% %s)",
			surprise.Actual, surprise.Forecast, surprise.Pct, surprise.Direction),
		EventSlug:   event.EventSlug,
		EventTime:   event.DateTime,
		Actual:      surprise.Actual,
		Forecast:    surprise.Forecast,
		SurprisePct: surprise.Pct,
		Direction:   surprise.Direction,
	}
}
