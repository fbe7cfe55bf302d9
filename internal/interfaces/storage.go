package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/macrocal/internal/models"
)

// EventStorage - interface for economic event persistence
type EventStorage interface {
	// FindByNaturalKey returns the persisted record for a (slug, dateTime)
	// pair, or (nil, nil) when none exists.
	FindByNaturalKey(ctx context.Context, slug string, at time.Time) (*models.EconomicEvent, error)

	// Upsert creates the full record on first sighting, otherwise updates
	// the mutable fields (actual, forecast, previous, importance) in place,
	// leaving creation metadata untouched.
	Upsert(ctx context.Context, event *models.ScrapedEvent) (*models.EconomicEvent, error)

	// ListRange returns events with dateTime in [from, to), sorted ascending.
	ListRange(ctx context.Context, from, to time.Time) ([]*models.EconomicEvent, error)

	CountEvents(ctx context.Context) (int, error)
	ClearAll(ctx context.Context) error
}

// NotificationStorage - interface for append-only notification records
type NotificationStorage interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error)
	CountNotifications(ctx context.Context) (int, error)
}
