package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/interfaces"
	"github.com/ternarybob/macrocal/internal/models"
)

type fakeEventStorage struct {
	records     map[string]*models.EconomicEvent
	failSlug    string // Upsert fails for this slug
	upsertCount int
}

func newFakeEventStorage() *fakeEventStorage {
	return &fakeEventStorage{records: make(map[string]*models.EconomicEvent)}
}

func (f *fakeEventStorage) FindByNaturalKey(ctx context.Context, slug string, at time.Time) (*models.EconomicEvent, error) {
	if record, ok := f.records[models.EventKey(slug, at)]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeEventStorage) Upsert(ctx context.Context, incoming *models.ScrapedEvent) (*models.EconomicEvent, error) {
	if incoming.EventSlug == f.failSlug {
		return nil, errors.New("storage unavailable")
	}
	f.upsertCount++

	key := incoming.NaturalKey()
	if existing, ok := f.records[key]; ok {
		existing.Actual = incoming.Actual
		existing.Forecast = incoming.Forecast
		existing.Previous = incoming.Previous
		existing.Importance = incoming.Importance
		return existing, nil
	}

	record := &models.EconomicEvent{
		EventName:  incoming.EventName,
		EventSlug:  incoming.EventSlug,
		DateTime:   incoming.DateTime,
		Actual:     incoming.Actual,
		Forecast:   incoming.Forecast,
		Previous:   incoming.Previous,
		Importance: incoming.Importance,
		Category:   incoming.Category,
	}
	f.records[key] = record
	return record, nil
}

func (f *fakeEventStorage) ListRange(ctx context.Context, from, to time.Time) ([]*models.EconomicEvent, error) {
	return nil, nil
}

func (f *fakeEventStorage) CountEvents(ctx context.Context) (int, error) {
	return len(f.records), nil
}

func (f *fakeEventStorage) ClearAll(ctx context.Context) error {
	f.records = make(map[string]*models.EconomicEvent)
	return nil
}

type fakeNotificationStorage struct {
	created []*models.Notification
}

func (f *fakeNotificationStorage) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationStorage) ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationStorage) CountNotifications(ctx context.Context) (int, error) {
	return len(f.created), nil
}

func newSyncService(adapters []interfaces.CalendarSource, events *fakeEventStorage, notifications *fakeNotificationStorage) *Service {
	logger := arbor.NewLogger()
	return NewService(NewOrchestrator(adapters, logger), events, notifications, logger)
}

func TestSyncRunCreatesAndNotifies(t *testing.T) {
	at := time.Date(2025, time.February, 7, 13, 30, 0, 0, time.UTC)
	events := newFakeEventStorage()
	notifications := &fakeNotificationStorage{}

	// First pass: forecast-only record goes in, no surprise possible.
	first := &stubSource{name: "feed", events: []models.ScrapedEvent{{
		EventName:  "Nonfarm Payrolls",
		EventSlug:  "nonfarm-payrolls",
		DateTime:   at,
		Forecast:   "160K",
		Importance: models.ImportanceHigh,
	}}}

	service := newSyncService([]interfaces.CalendarSource{first}, events, notifications)
	result, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Upserted)
	assert.Equal(t, 0, result.Surprises)
	assert.Empty(t, notifications.created)

	// Second pass: the actual arrives, 60% over forecast.
	second := &stubSource{name: "scraper", events: []models.ScrapedEvent{{
		EventName:  "Nonfarm Payrolls",
		EventSlug:  "nonfarm-payrolls",
		DateTime:   at,
		Actual:     "256K",
		Forecast:   "160K",
		Importance: models.ImportanceHigh,
	}}}

	service = newSyncService([]interfaces.CalendarSource{second}, events, notifications)
	result, err = service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Surprises)
	require.Len(t, notifications.created, 1)

	n := notifications.created[0]
	assert.Equal(t, models.NotificationTypeSurprise, n.Type)
	assert.Equal(t, "Nonfarm Payrolls: Beat", n.Title)
	assert.Contains(t, n.Body, "Actual 256K vs Forecast 160K")
	assert.Contains(t, n.Body, "above")
	assert.Equal(t, "nonfarm-payrolls", n.EventSlug)

	// Third pass with identical data must stay silent.
	service = newSyncService([]interfaces.CalendarSource{second}, events, notifications)
	result, err = service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Surprises)
	assert.Len(t, notifications.created, 1, "repeat sync of the same actual must not re-notify")
}

func TestSyncRunMissTitle(t *testing.T) {
	at := time.Date(2025, time.March, 14, 12, 30, 0, 0, time.UTC)
	events := newFakeEventStorage()
	notifications := &fakeNotificationStorage{}

	setup := &stubSource{name: "feed", events: []models.ScrapedEvent{{
		EventName: "Retail Sales", EventSlug: "retail-sales", DateTime: at,
		Forecast: "0.4", Importance: models.ImportanceHigh,
	}}}
	service := newSyncService([]interfaces.CalendarSource{setup}, events, notifications)
	_, err := service.Run(context.Background())
	require.NoError(t, err)

	actuals := &stubSource{name: "scraper", events: []models.ScrapedEvent{{
		EventName: "Retail Sales", EventSlug: "retail-sales", DateTime: at,
		Actual: "0.1", Forecast: "0.4", Importance: models.ImportanceHigh,
	}}}
	service = newSyncService([]interfaces.CalendarSource{actuals}, events, notifications)
	_, err = service.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifications.created, 1)
	assert.Equal(t, "Retail Sales: Miss", notifications.created[0].Title)
	assert.True(t, strings.Contains(notifications.created[0].Body, "below"))
}

func TestSyncRunPerEventIsolation(t *testing.T) {
	at := time.Date(2025, time.February, 7, 13, 30, 0, 0, time.UTC)
	events := newFakeEventStorage()
	events.failSlug = "broken-event"
	notifications := &fakeNotificationStorage{}

	source := &stubSource{name: "feed", events: []models.ScrapedEvent{
		{EventName: "Broken Event", EventSlug: "broken-event", DateTime: at},
		{EventName: "Trade Balance", EventSlug: "trade-balance", DateTime: at},
	}}

	service := newSyncService([]interfaces.CalendarSource{source}, events, notifications)
	result, err := service.Run(context.Background())
	require.NoError(t, err, "a failing record must not abort the pass")

	assert.Equal(t, 1, result.Upserted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Event, "broken-event")
}

func TestSyncRunAllSourcesFailed(t *testing.T) {
	events := newFakeEventStorage()
	notifications := &fakeNotificationStorage{}

	service := newSyncService([]interfaces.CalendarSource{
		&stubSource{name: "a", err: errors.New("down")},
		&stubSource{name: "b", err: errors.New("down")},
	}, events, notifications)

	_, err := service.Run(context.Background())
	require.Error(t, err)
}

func TestSyncRunZeroEventsIsNotAnError(t *testing.T) {
	events := newFakeEventStorage()
	notifications := &fakeNotificationStorage{}

	service := newSyncService([]interfaces.CalendarSource{
		&stubSource{name: "quiet"},
	}, events, notifications)

	result, err := service.Run(context.Background())
	require.NoError(t, err, "a source legitimately returning nothing is a normal empty pass")
	assert.Equal(t, 0, result.Scraped)
}
