package models

import (
	"strings"
	"time"
)

// Importance is the market significance level of a release.
type Importance string

const (
	ImportanceHigh   Importance = "HIGH"
	ImportanceMedium Importance = "MEDIUM"
	ImportanceLow    Importance = "LOW"
)

// ParseImportance maps a string to an Importance level, case-insensitive.
func ParseImportance(s string) (Importance, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return ImportanceHigh, true
	case "MEDIUM":
		return ImportanceMedium, true
	case "LOW":
		return ImportanceLow, true
	}
	return "", false
}

// Category is the coarse classification of an economic release.
type Category string

const (
	CategoryEmployment     Category = "EMPLOYMENT"
	CategoryInflation      Category = "INFLATION"
	CategoryGDP            Category = "GDP"
	CategoryManufacturing  Category = "MANUFACTURING"
	CategoryHousing        Category = "HOUSING"
	CategoryConsumer       Category = "CONSUMER"
	CategoryTrade          Category = "TRADE"
	CategoryMonetaryPolicy Category = "MONETARY_POLICY"
	CategoryGovernment     Category = "GOVERNMENT"
	CategoryEnergy         Category = "ENERGY"
	CategoryOther          Category = "OTHER"
)

// ScrapedEvent is one normalized release instance produced by a source
// adapter. Actual/Forecast/Previous use the empty string for "not yet
// known"; the upstream placeholder "--" is normalized away before an
// event leaves an adapter.
type ScrapedEvent struct {
	EventName  string     `json:"event_name"`
	EventSlug  string     `json:"event_slug"`
	DateTime   time.Time  `json:"date_time"`
	Period     string     `json:"period,omitempty"`
	Actual     string     `json:"actual,omitempty"`
	Forecast   string     `json:"forecast,omitempty"`
	Previous   string     `json:"previous,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	Importance Importance `json:"importance"`
	Category   Category   `json:"category"`
	SourceURL  string     `json:"source_url,omitempty"`
}

// NaturalKey returns the storage key identifying this release instance.
// Same-named events recurring monthly or weekly are distinct records keyed
// by their specific occurrence's timestamp.
func (e *ScrapedEvent) NaturalKey() string {
	return EventKey(e.EventSlug, e.DateTime)
}

// DayKey returns the cross-source deduplication key: slug plus calendar
// day. Two sightings of the same named event on the same day collapse to
// one even when their times differ slightly.
func (e *ScrapedEvent) DayKey() string {
	return e.EventSlug + "|" + e.DateTime.UTC().Format("2006-01-02")
}

// EventKey builds the natural key string for a (slug, dateTime) pair.
func EventKey(slug string, at time.Time) string {
	return slug + "|" + at.UTC().Format(time.RFC3339)
}

// NormalizeValue trims a source-provided value string and maps the "--"
// placeholder to absent.
func NormalizeValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "--" {
		return ""
	}
	return s
}

// EconomicEvent is the persisted form of a release instance. Created on
// first sighting of a (slug, dateTime) pair; on every subsequent sighting
// only Actual, Forecast, Previous, Importance and UpdatedAt change.
type EconomicEvent struct {
	EventName  string     `json:"event_name"`
	EventSlug  string     `json:"event_slug" badgerhold:"index"`
	DateTime   time.Time  `json:"date_time"`
	Period     string     `json:"period,omitempty"`
	Actual     string     `json:"actual,omitempty"`
	Forecast   string     `json:"forecast,omitempty"`
	Previous   string     `json:"previous,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	Importance Importance `json:"importance"`
	Category   Category   `json:"category"`
	SourceURL  string     `json:"source_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Key returns the record's natural key.
func (e *EconomicEvent) Key() string {
	return EventKey(e.EventSlug, e.DateTime)
}
