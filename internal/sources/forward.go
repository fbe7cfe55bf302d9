package sources

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/calendar"
	"github.com/ternarybob/macrocal/internal/common"
	"github.com/ternarybob/macrocal/internal/models"
)

const forwardSourceURL = "forward-schedule"

// ForwardAdapter synthesizes placeholder events for upcoming releases from
// the fixed recurrence table, so the calendar shows future dates before any
// upstream source publishes them. Placeholders carry no actual, forecast or
// previous values; scraped data for the same slug and day overwrites them.
type ForwardAdapter struct {
	weeksAhead int
	releases   []recurringRelease
	logger     arbor.ILogger
	now        func() time.Time
}

// NewForwardAdapter creates the forward-schedule generator.
func NewForwardAdapter(config common.ForwardConfig, logger arbor.ILogger) *ForwardAdapter {
	weeks := config.WeeksAhead
	if weeks <= 0 {
		weeks = 4
	}
	return &ForwardAdapter{
		weeksAhead: weeks,
		releases:   usReleases,
		logger:     logger,
		now:        time.Now,
	}
}

// Name implements interfaces.CalendarSource.
func (a *ForwardAdapter) Name() string {
	return "forward"
}

// Fetch implements interfaces.CalendarSource.
func (a *ForwardAdapter) Fetch(ctx context.Context) ([]models.ScrapedEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := a.now().UTC()
	end := start.AddDate(0, 0, a.weeksAhead*7)

	events := a.Generate(start, end)

	a.logger.Debug().
		Int("events", len(events)).
		Str("until", end.Format("2006-01-02")).
		Msg("Forward schedule generated")

	return events, nil
}

// Generate produces placeholder events strictly inside (start, end). It is
// deterministic for a fixed window: the same inputs always yield the same
// events in the same order.
func (a *ForwardAdapter) Generate(start, end time.Time) []models.ScrapedEvent {
	var events []models.ScrapedEvent
	seen := make(map[string]struct{})

	// Iterate every month the window touches.
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		for _, release := range a.releases {
			for _, date := range release.Rule.Resolve(cursor.Year(), cursor.Month()) {
				at := calendar.ReleaseTime(date, release.Hour, release.Minute)
				if !at.After(start) || !at.Before(end) {
					continue
				}

				slug := calendar.Slugify(release.Name)
				key := slug + "|" + at.Format("2006-01-02")
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				events = append(events, models.ScrapedEvent{
					EventName:  release.Name,
					EventSlug:  slug,
					DateTime:   at,
					Importance: release.Importance,
					Category:   release.Category,
					SourceURL:  forwardSourceURL,
				})
			}
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	return events
}
