// Package handlers contains the HTTP endpoint handlers.
package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/macrocal/internal/pipeline"
)

// SyncHandler exposes the manual sync trigger
type SyncHandler struct {
	syncService *pipeline.Service
	secret      string
	logger      arbor.ILogger
}

// NewSyncHandler creates a new sync handler. An empty secret disables the
// bearer check.
func NewSyncHandler(syncService *pipeline.Service, secret string, logger arbor.ILogger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		secret:      secret,
		logger:      logger,
	}
}

// TriggerSyncHandler runs a full sync pass and returns the result counts. A pass
// where every source failed is a 500; sources returning zero events is a
// normal empty result.
func (h *SyncHandler) TriggerSyncHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorized(r) {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.syncService.Run(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Sync request failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *SyncHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
