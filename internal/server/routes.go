package server

import (
	"net/http"

	"github.com/ternarybob/macrocal/internal/handlers"
)

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	syncHandler := handlers.NewSyncHandler(s.app.SyncService, s.app.Config.Scheduler.Secret, s.app.Logger)
	eventHandler := handlers.NewEventHandler(s.app.EventStorage, s.app.NotificationStorage, s.app.Scheduler, s.app.Logger)

	mux.HandleFunc("/health", eventHandler.HealthHandler)
	mux.HandleFunc("/api/sync", syncHandler.TriggerSyncHandler)
	mux.HandleFunc("/api/events", eventHandler.ListEventsHandler)
	mux.HandleFunc("/api/notifications", eventHandler.ListNotificationsHandler)
	mux.HandleFunc("/api/status", eventHandler.StatusHandler)

	return mux
}
