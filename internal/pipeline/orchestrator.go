// Package pipeline coordinates the calendar sources: scraping, merging,
// persisting and surprise detection.
package pipeline

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/interfaces"
	"github.com/ternarybob/macrocal/internal/models"
)

const defaultAdapterTimeout = 60 * time.Second

// ScrapeStats records the outcome of one scrape pass across all sources.
type ScrapeStats struct {
	Adapters int            // Adapters attempted
	Failed   int            // Adapters that returned an error
	BySource map[string]int // Events contributed per source after merging
}

// AllFailed reports whether no adapter produced a usable result.
func (s ScrapeStats) AllFailed() bool {
	return s.Adapters > 0 && s.Failed == s.Adapters
}

// Orchestrator runs the configured sources in priority order and merges
// their output. Adapter order matters: when two sources report the same
// event on the same day, the earlier adapter's version is kept.
type Orchestrator struct {
	adapters []interfaces.CalendarSource
	timeout  time.Duration
	logger   arbor.ILogger
}

// NewOrchestrator creates an orchestrator over the given sources. The
// slice order defines merge priority.
func NewOrchestrator(adapters []interfaces.CalendarSource, logger arbor.ILogger) *Orchestrator {
	return &Orchestrator{
		adapters: adapters,
		timeout:  defaultAdapterTimeout,
		logger:   logger,
	}
}

// Scrape fetches from every adapter sequentially and merges the results.
// One adapter failing never aborts the pass; the failure is logged and
// counted and the remaining adapters still run.
func (o *Orchestrator) Scrape(ctx context.Context) ([]models.ScrapedEvent, ScrapeStats) {
	var merged []models.ScrapedEvent
	seen := make(map[string]struct{})
	stats := ScrapeStats{
		Adapters: len(o.adapters),
		BySource: make(map[string]int),
	}

	for _, adapter := range o.adapters {
		events, err := o.fetchOne(ctx, adapter)
		if err != nil {
			o.logger.Warn().
				Err(err).
				Str("source", adapter.Name()).
				Msg("Calendar source failed, continuing with remaining sources")
			stats.Failed++
			continue
		}

		kept := 0
		for _, event := range events {
			key := event.DayKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, event)
			kept++
		}
		stats.BySource[adapter.Name()] = kept

		o.logger.Info().
			Str("source", adapter.Name()).
			Int("fetched", len(events)).
			Int("kept", kept).
			Msg("Calendar source scraped")
	}

	return merged, stats
}

func (o *Orchestrator) fetchOne(ctx context.Context, adapter interfaces.CalendarSource) ([]models.ScrapedEvent, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return adapter.Fetch(fetchCtx)
}
