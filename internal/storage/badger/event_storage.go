package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/macrocal/internal/interfaces"
	"github.com/ternarybob/macrocal/internal/models"
)

// EventStorage implements the EventStorage interface for Badger
type EventStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEventStorage creates a new EventStorage instance
func NewEventStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EventStorage {
	return &EventStorage{
		db:     db,
		logger: logger,
	}
}

func (s *EventStorage) FindByNaturalKey(ctx context.Context, slug string, at time.Time) (*models.EconomicEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var event models.EconomicEvent
	if err := s.db.Store().Get(models.EventKey(slug, at), &event); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (s *EventStorage) Upsert(ctx context.Context, incoming *models.ScrapedEvent) (*models.EconomicEvent, error) {
	existing, err := s.FindByNaturalKey(ctx, incoming.EventSlug, incoming.DateTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if existing == nil {
		event := &models.EconomicEvent{
			EventName:  incoming.EventName,
			EventSlug:  incoming.EventSlug,
			DateTime:   incoming.DateTime,
			Period:     incoming.Period,
			Actual:     incoming.Actual,
			Forecast:   incoming.Forecast,
			Previous:   incoming.Previous,
			Unit:       incoming.Unit,
			Importance: incoming.Importance,
			Category:   incoming.Category,
			SourceURL:  incoming.SourceURL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.db.Store().Upsert(event.Key(), event); err != nil {
			return nil, fmt.Errorf("failed to create event: %w", err)
		}
		return event, nil
	}

	// Existing record: only the mutable fields change.
	existing.Actual = incoming.Actual
	existing.Forecast = incoming.Forecast
	existing.Previous = incoming.Previous
	existing.Importance = incoming.Importance
	existing.UpdatedAt = now

	if err := s.db.Store().Upsert(existing.Key(), existing); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return existing, nil
}

func (s *EventStorage) ListRange(ctx context.Context, from, to time.Time) ([]*models.EconomicEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []models.EconomicEvent
	err := s.db.Store().Find(&events, badgerhold.Where("DateTime").Ge(from).And("DateTime").Lt(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].DateTime.Before(events[j].DateTime)
	})

	result := make([]*models.EconomicEvent, len(events))
	for i := range events {
		result[i] = &events[i]
	}
	return result, nil
}

func (s *EventStorage) CountEvents(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count, err := s.db.Store().Count(&models.EconomicEvent{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return int(count), nil
}

func (s *EventStorage) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Store().DeleteMatching(&models.EconomicEvent{}, nil); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}
