package interfaces

import (
	"context"

	"github.com/ternarybob/macrocal/internal/models"
)

// CalendarSource - a source-specific fetch-and-normalize unit producing
// canonical events from one upstream origin. Implementations contain
// their own parse failures (returning an empty slice) and surface
// transport failures as typed errors; they must never abort sibling
// sources.
type CalendarSource interface {
	// Name identifies the source in logs and stats.
	Name() string

	// Fetch retrieves and normalizes the source's current events.
	Fetch(ctx context.Context) ([]models.ScrapedEvent, error)
}

// SchedulerService - interface for the periodic sync scheduler
type SchedulerService interface {
	Start() error
	Stop() error
	TriggerNow()
	IsRunning() bool
}
