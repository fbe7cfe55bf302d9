package sources

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/calendar"
	"github.com/ternarybob/macrocal/internal/common"
	"github.com/ternarybob/macrocal/internal/models"
)

var (
	// dateHeaderPattern matches date header rows like "Feb. 10" or
	// "Monday, Feb 10".
	dateHeaderPattern = regexp.MustCompile(`\w+\.?\s+\d{1,2}`)

	// monthAbbrevPattern identifies date headers in the generic layout.
	monthAbbrevPattern = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+\d{1,2}`)

	// weekdayPrefixPattern identifies rows that are really day headings.
	weekdayPrefixPattern = regexp.MustCompile(`(?i)^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)`)

	// clockPattern matches time-of-day text like "8:30 am" or "2 pm"
	// (dots already stripped).
	clockPattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
)

// MarketWatchAdapter scrapes the economic-calendar page. The page's table
// class names and cell ordering are not under our control and change
// without notice, so parsing runs through an ordered strategy chain and
// stops at the first strategy that yields any events.
type MarketWatchAdapter struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	now        func() time.Time
}

// NewMarketWatchAdapter creates the HTML calendar adapter.
func NewMarketWatchAdapter(config common.CalendarConfig, logger arbor.ILogger) *MarketWatchAdapter {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MarketWatchAdapter{
		url:       config.URL,
		userAgent: config.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// Name implements interfaces.CalendarSource.
func (a *MarketWatchAdapter) Name() string {
	return "marketwatch"
}

// Fetch implements interfaces.CalendarSource.
func (a *MarketWatchAdapter) Fetch(ctx context.Context) ([]models.ScrapedEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, &FetchError{Source: a.Name(), Message: err.Error()}
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: a.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Source: a.Name(), StatusCode: resp.StatusCode, Message: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, &FetchError{Source: a.Name(), StatusCode: resp.StatusCode, Message: "unexpected content type: " + contentType}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{Source: a.Name(), Message: err.Error()}
	}

	return a.parseDocument(doc), nil
}

// parseStrategy is one pure HTML-to-events parser tried in sequence.
type parseStrategy struct {
	name string
	fn   func(*goquery.Document) []models.ScrapedEvent
}

// parseDocument runs the strategy chain. A document no strategy can read
// produces an empty list rather than an error; the orchestrator treats an
// empty result as an adapter failure and moves on.
func (a *MarketWatchAdapter) parseDocument(doc *goquery.Document) []models.ScrapedEvent {
	strategies := []parseStrategy{
		{"calendar-table", a.parseCalendarTable},
		{"generic-rows", a.parseGenericRows},
	}

	for _, strategy := range strategies {
		events := strategy.fn(doc)
		if len(events) > 0 {
			a.logger.Debug().
				Str("strategy", strategy.name).
				Int("events", len(events)).
				Msg("Calendar page parsed")
			return events
		}
	}

	a.logger.Warn().Str("url", a.url).Msg("No parse strategy matched calendar page structure")
	return nil
}

// parseCalendarTable handles the table-based layout. Date header rows
// carry the date for all data rows that follow, until the next header.
func (a *MarketWatchAdapter) parseCalendarTable(doc *goquery.Document) []models.ScrapedEvent {
	var events []models.ScrapedEvent
	currentDate := ""

	doc.Find("table.table--economic-calendar tr, table.calendar tr, .economic-calendar table tr").
		Each(func(_ int, row *goquery.Selection) {
			dateHeader := strings.TrimSpace(row.Find("th.cell--date, td.date-cell, th[colspan]").Text())
			if dateHeader == "" {
				dateHeader = strings.TrimSpace(row.Find("td").First().Text())
			}

			// A row with few cells and date-like text is a date header.
			cells := row.Find("td, th")
			if cells.Length() <= 2 && dateHeaderPattern.MatchString(dateHeader) {
				currentDate = dateHeader
				return
			}

			tds := row.Find("td")
			if tds.Length() < 3 {
				return
			}

			timeText := strings.TrimSpace(tds.Eq(0).Text())
			eventName := strings.TrimSpace(tds.Eq(1).Text())
			if eventName == "" {
				eventName = timeText
			}
			if len(eventName) < 3 || weekdayPrefixPattern.MatchString(eventName) {
				return
			}

			events = append(events, a.buildEvent(
				eventName,
				currentDate,
				timeText,
				strings.TrimSpace(tds.Eq(2).Text()),
				strings.TrimSpace(tds.Eq(3).Text()),
				strings.TrimSpace(tds.Eq(4).Text()),
				strings.TrimSpace(tds.Eq(5).Text()),
			))
		})

	return events
}

// parseGenericRows is the fallback for div-based layouts.
func (a *MarketWatchAdapter) parseGenericRows(doc *goquery.Document) []models.ScrapedEvent {
	var events []models.ScrapedEvent
	currentDate := ""

	doc.Find("[class*='calendar'] [class*='row'], [class*='economic'] [class*='row']").
		Each(func(_ int, el *goquery.Selection) {
			text := strings.TrimSpace(el.Text())

			if monthAbbrevPattern.MatchString(text) && len(text) < 50 {
				currentDate = text
				return
			}

			children := el.Children()
			if children.Length() < 3 {
				return
			}

			eventName := strings.TrimSpace(children.Eq(1).Text())
			if eventName == "" {
				eventName = strings.TrimSpace(children.Eq(0).Text())
			}
			if len(eventName) <= 3 {
				return
			}

			events = append(events, a.buildEvent(
				eventName,
				currentDate,
				strings.TrimSpace(children.Eq(0).Text()),
				strings.TrimSpace(children.Eq(2).Text()),
				strings.TrimSpace(children.Eq(3).Text()),
				strings.TrimSpace(children.Eq(4).Text()),
				strings.TrimSpace(children.Eq(5).Text()),
			))
		})

	return events
}

func (a *MarketWatchAdapter) buildEvent(eventName, dateStr, timeStr, period, actual, forecast, previous string) models.ScrapedEvent {
	return models.ScrapedEvent{
		EventName:  eventName,
		EventSlug:  calendar.Slugify(eventName),
		DateTime:   a.resolveDateTime(dateStr, timeStr),
		Period:     models.NormalizeValue(period),
		Actual:     models.NormalizeValue(actual),
		Forecast:   models.NormalizeValue(forecast),
		Previous:   models.NormalizeValue(previous),
		Importance: calendar.InferImportance(eventName, ""),
		Category:   calendar.Categorize(eventName),
		SourceURL:  a.url,
	}
}

// resolveDateTime combines a tracked date header with a row's
// time-of-day text. An unparseable date falls back to the current time;
// that masks malformed upstream rows, so each fallback is logged.
func (a *MarketWatchAdapter) resolveDateTime(dateStr, timeStr string) time.Time {
	now := a.now().UTC()

	if dateStr == "" {
		return now
	}

	date, ok := parseHeaderDate(dateStr, now.Year())
	if !ok {
		a.logger.Warn().Str("date", dateStr).Msg("Unparseable calendar date header, falling back to now")
		return now
	}

	hour, minute, ok := parseClockTime(timeStr)
	if !ok {
		hour, minute = 0, 0
	}

	return calendar.ReleaseTime(date, hour, minute)
}

// headerDateLayouts are tried in order against cleaned header text.
var headerDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Monday, Jan 2, 2006",
	"Monday, January 2, 2006",
}

// parseHeaderDate parses header text like "Feb. 10, 2025" or "Feb 10"
// (current year assumed when absent).
func parseHeaderDate(dateStr string, currentYear int) (time.Time, bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(dateStr, ".", ""))

	for _, layout := range headerDateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, true
		}
	}

	// Fallback: append the current year.
	withYear := clean + ", " + strconv.Itoa(currentYear)
	for _, layout := range headerDateLayouts {
		if t, err := time.Parse(layout, withYear); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseClockTime parses time-of-day text like "8:30 a.m." or "2 p.m."
// into a 24-hour hour and minute.
func parseClockTime(timeStr string) (hour, minute int, ok bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(timeStr), ".", ""))
	match := clockPattern.FindStringSubmatch(clean)
	if match == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(match[1])
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if match[3] == "pm" && hour != 12 {
		hour += 12
	}
	if match[3] == "am" && hour == 12 {
		hour = 0
	}

	return hour, minute, true
}
