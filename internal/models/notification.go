package models

import (
	"time"
)

// Notification types
const (
	NotificationTypeSurprise = "SURPRISE"
)

// Notification is an append-only record emitted when a release's actual
// value deviates from the recorded forecast beyond threshold. It never
// alters the event record itself.
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	EventSlug   string    `json:"event_slug" badgerhold:"index"`
	EventTime   time.Time `json:"event_time"`
	Actual      string    `json:"actual"`
	Forecast    string    `json:"forecast"`
	SurprisePct float64   `json:"surprise_pct"`
	Direction   string    `json:"direction"` // "above" or "below"
	CreatedAt   time.Time `json:"created_at"`
}
