package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/common"
	"github.com/ternarybob/macrocal/internal/models"
)

const calendarTableHTML = `<!DOCTYPE html>
<html><body>
<table class="table--economic-calendar">
  <tr><th colspan="6">Friday, Feb. 7, 2025</th></tr>
  <tr>
    <td>8:30 a.m.</td>
    <td>Nonfarm Payrolls</td>
    <td>Jan.</td>
    <td>256K</td>
    <td>160K</td>
    <td>212K</td>
  </tr>
  <tr>
    <td>10:00 a.m.</td>
    <td>Michigan Consumer Sentiment</td>
    <td>Feb.</td>
    <td>--</td>
    <td>71.8</td>
    <td>71.1</td>
  </tr>
  <tr><th colspan="6">Wednesday, Feb. 12, 2025</th></tr>
  <tr>
    <td>8:30 a.m.</td>
    <td>Consumer Price Index</td>
    <td>Jan.</td>
    <td></td>
    <td>0.3%</td>
    <td>0.4%</td>
  </tr>
</table>
</body></html>`

const genericRowsHTML = `<!DOCTYPE html>
<html><body>
<div class="economic-calendar-widget">
  <div class="calendar-row">Feb. 7, 2025</div>
  <div class="calendar-row">
    <span>8:30 am</span>
    <span>Nonfarm Payrolls</span>
    <span>Jan.</span>
    <span>256K</span>
    <span>160K</span>
    <span>212K</span>
  </div>
</div>
</body></html>`

func calendarServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
}

func newTestAdapter(url string) *MarketWatchAdapter {
	return NewMarketWatchAdapter(common.CalendarConfig{
		URL:            url,
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
	}, arbor.NewLogger())
}

func TestMarketWatchAdapterTableLayout(t *testing.T) {
	server := calendarServer(t, calendarTableHTML)
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	events, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)

	nfp := events[0]
	assert.Equal(t, "Nonfarm Payrolls", nfp.EventName)
	assert.Equal(t, "nonfarm-payrolls", nfp.EventSlug)
	assert.Equal(t, "256K", nfp.Actual)
	assert.Equal(t, "160K", nfp.Forecast)
	assert.Equal(t, "212K", nfp.Previous)
	assert.Equal(t, models.ImportanceHigh, nfp.Importance)
	// 8:30 nominal Eastern lands at 13:30 under the fixed offset.
	want := time.Date(2025, time.February, 7, 13, 30, 0, 0, time.UTC)
	assert.True(t, nfp.DateTime.Equal(want), "DateTime = %v, want %v", nfp.DateTime, want)

	sentiment := events[1]
	assert.Empty(t, sentiment.Actual, "dash placeholder normalized to absent")
	assert.Equal(t, "71.8", sentiment.Forecast)

	// The second header row advances the tracked date.
	cpi := events[2]
	assert.Equal(t, "consumer-price-index", cpi.EventSlug)
	assert.Equal(t, time.February, cpi.DateTime.Month())
	assert.Equal(t, 12, cpi.DateTime.Day())
	assert.Empty(t, cpi.Actual)
}

func TestMarketWatchAdapterGenericLayout(t *testing.T) {
	server := calendarServer(t, genericRowsHTML)
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	events, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "Nonfarm Payrolls", events[0].EventName)
	assert.Equal(t, "256K", events[0].Actual)
}

func TestMarketWatchAdapterUnrecognizedPage(t *testing.T) {
	server := calendarServer(t, "<html><body><p>Maintenance</p></body></html>")
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	events, err := adapter.Fetch(context.Background())
	require.NoError(t, err, "an unreadable page is an empty result, not an error")
	assert.Empty(t, events)
}

func TestMarketWatchAdapterHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	adapter := newTestAdapter(server.URL)
	_, err := adapter.Fetch(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}

func TestParseHeaderDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"Feb. 7, 2025", time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC), true},
		{"Friday, Feb 7, 2025", time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC), true},
		{"Feb 7", time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := parseHeaderDate(tt.input, 2025)
		if ok != tt.ok {
			t.Errorf("parseHeaderDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("parseHeaderDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input  string
		hour   int
		minute int
		ok     bool
	}{
		{"8:30 a.m.", 8, 30, true},
		{"10 am", 10, 0, true},
		{"2:00 p.m.", 14, 0, true},
		{"12:00 p.m.", 12, 0, true},
		{"12:15 a.m.", 0, 15, true},
		{"all day", 0, 0, false},
	}

	for _, tt := range tests {
		hour, minute, ok := parseClockTime(tt.input)
		if ok != tt.ok || hour != tt.hour || minute != tt.minute {
			t.Errorf("parseClockTime(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.input, hour, minute, ok, tt.hour, tt.minute, tt.ok)
		}
	}
}
