// Package sources contains the per-origin calendar adapters: the JSON
// feed, the scraped HTML calendar page, and the synthetic forward
// schedule. Each adapter normalizes its upstream shape into
// models.ScrapedEvent and contains its own failures.
package sources

import (
	"fmt"
)

// FetchError represents a transport-level failure talking to an upstream
// source: network error, non-2xx status, or unexpected content type.
type FetchError struct {
	Source     string
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s fetch failed: %s (status: %d)", e.Source, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s fetch failed: %s", e.Source, e.Message)
}

// ParseError represents a malformed or unexpected response body shape.
type ParseError struct {
	Source  string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse failed: %s", e.Source, e.Message)
}
