package badger

import (
	"context"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/macrocal/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Options = badgerdb.DefaultOptions(tmpDir).WithLogger(nil)

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

func scraped(slug string, at time.Time) *models.ScrapedEvent {
	return &models.ScrapedEvent{
		EventName:  slug,
		EventSlug:  slug,
		DateTime:   at,
		Importance: models.ImportanceMedium,
		Category:   models.CategoryOther,
	}
}

func TestEventStorageUpsertCreateThenUpdate(t *testing.T) {
	db := newTestDB(t)
	storage := NewEventStorage(db, arbor.NewLogger())
	ctx := context.Background()

	at := time.Date(2025, time.February, 7, 13, 30, 0, 0, time.UTC)

	incoming := scraped("nonfarm-payrolls", at)
	incoming.EventName = "Nonfarm Payrolls"
	incoming.Forecast = "160K"
	incoming.Category = models.CategoryEmployment
	incoming.SourceURL = "https://example.com/feed"

	created, err := storage.Upsert(ctx, incoming)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set on create")
	}

	// Second sighting carries the actual plus a revised importance. The
	// immutable fields must survive as first written.
	update := scraped("nonfarm-payrolls", at)
	update.EventName = "NFP (renamed upstream)"
	update.Actual = "256K"
	update.Forecast = "160K"
	update.Previous = "212K"
	update.Importance = models.ImportanceHigh
	update.Category = models.CategoryInflation
	update.SourceURL = "https://example.com/other"

	updated, err := storage.Upsert(ctx, update)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Actual != "256K" || updated.Previous != "212K" {
		t.Errorf("mutable fields not updated: %+v", updated)
	}
	if updated.Importance != models.ImportanceHigh {
		t.Errorf("importance not updated: %v", updated.Importance)
	}
	if updated.EventName != "Nonfarm Payrolls" {
		t.Errorf("event name must not change on update, got %q", updated.EventName)
	}
	if updated.Category != models.CategoryEmployment {
		t.Errorf("category must not change on update, got %v", updated.Category)
	}
	if updated.SourceURL != "https://example.com/feed" {
		t.Errorf("source URL must not change on update, got %q", updated.SourceURL)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed across update: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	count, err := storage.CountEvents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 record after create+update", count)
	}
}

func TestEventStorageFindAbsentIsNilNil(t *testing.T) {
	db := newTestDB(t)
	storage := NewEventStorage(db, arbor.NewLogger())

	found, err := storage.FindByNaturalKey(context.Background(), "no-such-event", time.Now())
	if err != nil {
		t.Fatalf("absent record must not be an error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %+v", found)
	}
}

func TestEventStorageSameSlugDifferentTimes(t *testing.T) {
	db := newTestDB(t)
	storage := NewEventStorage(db, arbor.NewLogger())
	ctx := context.Background()

	january := time.Date(2025, time.January, 3, 13, 30, 0, 0, time.UTC)
	february := time.Date(2025, time.February, 7, 13, 30, 0, 0, time.UTC)

	if _, err := storage.Upsert(ctx, scraped("nonfarm-payrolls", january)); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.Upsert(ctx, scraped("nonfarm-payrolls", february)); err != nil {
		t.Fatal(err)
	}

	count, _ := storage.CountEvents(ctx)
	if count != 2 {
		t.Errorf("count = %d, want 2 distinct occurrences", count)
	}
}

func TestEventStorageListRange(t *testing.T) {
	db := newTestDB(t)
	storage := NewEventStorage(db, arbor.NewLogger())
	ctx := context.Background()

	base := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{20, 5, 10, 40} {
		if _, err := storage.Upsert(ctx, scraped("event", base.AddDate(0, 0, offset))); err != nil {
			t.Fatal(err)
		}
	}

	events, err := storage.ListRange(ctx, base, base.AddDate(0, 0, 30))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3 inside [base, base+30d)", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].DateTime.Before(events[i-1].DateTime) {
			t.Errorf("results not sorted ascending at %d", i)
		}
	}

	// Range end is exclusive.
	events, err = storage.ListRange(ctx, base, base.AddDate(0, 0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("len = %d, want 0 for [base, base+5d)", len(events))
	}
}

func TestEventStorageClearAll(t *testing.T) {
	db := newTestDB(t)
	storage := NewEventStorage(db, arbor.NewLogger())
	ctx := context.Background()

	at := time.Date(2025, time.March, 14, 12, 30, 0, 0, time.UTC)
	if _, err := storage.Upsert(ctx, scraped("cpi", at)); err != nil {
		t.Fatal(err)
	}

	if err := storage.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}

	count, _ := storage.CountEvents(ctx)
	if count != 0 {
		t.Errorf("count = %d after clear, want 0", count)
	}
}

func TestNotificationStorageCreateAndList(t *testing.T) {
	db := newTestDB(t)
	storage := NewNotificationStorage(db, arbor.NewLogger())
	ctx := context.Background()

	for i, slug := range []string{"first", "second", "third"} {
		n := &models.Notification{
			Type:      models.NotificationTypeSurprise,
			Title:     slug,
			EventSlug: slug,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := storage.CreateNotification(ctx, n); err != nil {
			t.Fatal(err)
		}
		if n.ID == "" {
			t.Fatal("notification ID not assigned")
		}
	}

	listed, err := storage.ListNotifications(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 {
		t.Fatalf("len = %d, want limit of 2", len(listed))
	}
	if listed[0].EventSlug != "third" {
		t.Errorf("newest first, got %q", listed[0].EventSlug)
	}

	count, _ := storage.CountNotifications(ctx)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
