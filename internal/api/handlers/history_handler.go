package handlers

import (
	"net/http"

	"github.com/dakshcoder1/Capstone-project-Final/internal/auth"
	"github.com/dakshcoder1/Capstone-project-Final/internal/services"
	"github.com/rs/zerolog/log"
)

// HistoryHandler serves a user's own tool invocation history.
type HistoryHandler struct {
	history services.HistoryServiceProvider
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history services.HistoryServiceProvider) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetOwn returns the caller's history records, oldest first. Records owned
// by other users are never included.
func (h *HistoryHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Token is missing")
		return
	}

	records, err := h.history.GetForUser(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to retrieve history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	respondJSON(w, http.StatusOK, newHistoryViews(records))
}
