package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/macrocal/internal/calendar"
	"github.com/ternarybob/macrocal/internal/models"
)

const (
	// DefaultFeedTimeout is the default HTTP timeout for feed requests.
	DefaultFeedTimeout = 30 * time.Second

	// DefaultFeedRateLimit is the default rate limit (requests per second).
	DefaultFeedRateLimit = 5
)

// feedRecord is the remote shape of one feed entry. The feed publishes a
// rolling week of scheduled releases; it never carries realized values,
// so Actual is always absent from events this adapter produces.
type feedRecord struct {
	Title    string `json:"title" validate:"required"`
	Country  string `json:"country" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Impact   string `json:"impact"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
}

// FeedClient is an HTTP client for the JSON economic-calendar feed.
type FeedClient struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// FeedOption configures the FeedClient.
type FeedOption func(*FeedClient)

// WithFeedHTTPClient sets a custom HTTP client.
func WithFeedHTTPClient(httpClient *http.Client) FeedOption {
	return func(c *FeedClient) {
		c.httpClient = httpClient
	}
}

// WithFeedLogger sets a logger.
func WithFeedLogger(logger arbor.ILogger) FeedOption {
	return func(c *FeedClient) {
		c.logger = logger
	}
}

// WithFeedRateLimit sets a custom rate limit.
func WithFeedRateLimit(requestsPerSecond int) FeedOption {
	return func(c *FeedClient) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewFeedClient creates a new feed client for the given endpoint.
func NewFeedClient(baseURL string, opts ...FeedOption) *FeedClient {
	c := &FeedClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultFeedTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultFeedRateLimit), DefaultFeedRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fetchRecords performs the GET and decodes the feed body.
func (c *FeedClient) fetchRecords(ctx context.Context) ([]feedRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Source: "feed", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &FetchError{Source: "feed", Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().Str("url", c.baseURL).Msg("Feed request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: "feed", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: "feed", StatusCode: resp.StatusCode, Message: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "application/json") {
		return nil, &FetchError{Source: "feed", StatusCode: resp.StatusCode, Message: "unexpected content type: " + contentType}
	}

	var records []feedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &ParseError{Source: "feed", Message: err.Error()}
	}

	return records, nil
}

// feedDateLayouts are tried in order when parsing feed timestamps.
var feedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FeedAdapter maps the JSON feed into canonical events, filtered to one
// currency and a bounded date window.
type FeedAdapter struct {
	client     *FeedClient
	currency   string
	windowDays int
	validate   *validator.Validate
	logger     arbor.ILogger
}

// NewFeedAdapter creates a feed adapter filtering to the given currency
// code and keeping events within [now-1d, now+windowDays].
func NewFeedAdapter(client *FeedClient, currency string, windowDays int, logger arbor.ILogger) *FeedAdapter {
	return &FeedAdapter{
		client:     client,
		currency:   strings.ToUpper(currency),
		windowDays: windowDays,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Name implements interfaces.CalendarSource.
func (a *FeedAdapter) Name() string {
	return "feed"
}

// Fetch implements interfaces.CalendarSource.
func (a *FeedAdapter) Fetch(ctx context.Context) ([]models.ScrapedEvent, error) {
	records, err := a.client.fetchRecords(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	windowStart := now.Add(-24 * time.Hour)
	windowEnd := now.AddDate(0, 0, a.windowDays)

	events := make([]models.ScrapedEvent, 0, len(records))
	for _, rec := range records {
		if err := a.validate.Struct(rec); err != nil {
			a.logger.Warn().Err(err).Str("title", rec.Title).Msg("Skipping malformed feed record")
			continue
		}
		if !strings.EqualFold(rec.Country, a.currency) {
			continue
		}

		at, ok := parseFeedDate(rec.Date)
		if !ok {
			// Best-effort degrade: keep the record rather than dropping it.
			a.logger.Warn().Str("date", rec.Date).Str("title", rec.Title).Msg("Unparseable feed date, falling back to now")
			at = now
		}
		if at.Before(windowStart) || at.After(windowEnd) {
			continue
		}

		events = append(events, models.ScrapedEvent{
			EventName:  rec.Title,
			EventSlug:  calendar.Slugify(rec.Title),
			DateTime:   at,
			Forecast:   models.NormalizeValue(rec.Forecast),
			Previous:   models.NormalizeValue(rec.Previous),
			Importance: calendar.InferImportance(rec.Title, rec.Impact),
			Category:   calendar.Categorize(rec.Title),
			SourceURL:  a.client.baseURL,
		})
	}

	a.logger.Debug().Int("records", len(records)).Int("events", len(events)).Msg("Feed fetch complete")

	return events, nil
}

func parseFeedDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
