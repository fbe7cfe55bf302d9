package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/common"
	"github.com/ternarybob/macrocal/internal/interfaces"
)

const (
	defaultLookbackDays      = 7
	defaultLookaheadDays     = 14
	defaultNotificationLimit = 50
)

// EventHandler serves the stored calendar and notification queries
type EventHandler struct {
	events        interfaces.EventStorage
	notifications interfaces.NotificationStorage
	scheduler     interfaces.SchedulerService
	logger        arbor.ILogger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events interfaces.EventStorage, notifications interfaces.NotificationStorage, scheduler interfaces.SchedulerService, logger arbor.ILogger) *EventHandler {
	return &EventHandler{
		events:        events,
		notifications: notifications,
		scheduler:     scheduler,
		logger:        logger,
	}
}

// ListEventsHandler returns events in a date range. Defaults to a window
// from a week back to two weeks ahead.
func (h *EventHandler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultLookbackDays)
	to := now.AddDate(0, 0, defaultLookaheadDays)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid 'from' date: "+raw)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid 'to' date: "+raw)
			return
		}
		to = parsed
	}

	events, err := h.events.ListRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error().Err(err).Msg("Event list query failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from":   from.Format(time.RFC3339),
		"to":     to.Format(time.RFC3339),
		"count":  len(events),
		"events": events,
	})
}

// ListNotificationsHandler returns recent surprise notifications.
func (h *EventHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, http.StatusBadRequest, "invalid 'limit': "+raw)
			return
		}
		limit = parsed
	}

	notifications, err := h.notifications.ListNotifications(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Notification list query failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

// StatusHandler reports store counts and scheduler state.
func (h *EventHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventCount, err := h.events.CountEvents(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	notificationCount, err := h.notifications.CountNotifications(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":           common.GetVersion(),
		"events":            eventCount,
		"notifications":     notificationCount,
		"scheduler_running": h.scheduler.IsRunning(),
	})
}

// HealthHandler is the liveness probe.
func (h *EventHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": common.GetVersion(),
	})
}

// parseDateParam accepts a date-only or full RFC 3339 timestamp.
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
