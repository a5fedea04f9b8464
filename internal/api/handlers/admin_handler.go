package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dakshcoder1/Capstone-project-Final/internal/auth"
	"github.com/dakshcoder1/Capstone-project-Final/internal/models"
	"github.com/dakshcoder1/Capstone-project-Final/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles the admin-only management endpoints.
type AdminHandler struct {
	users   services.UserServiceProvider
	history services.HistoryServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users services.UserServiceProvider, history services.HistoryServiceProvider) *AdminHandler {
	return &AdminHandler{users: users, history: history}
}

type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func newUserViews(users []models.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, userView{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			IsAdmin:   user.IsAdmin,
			CreatedAt: user.CreatedAt.Format(timeLayout),
		})
	}
	return views
}

// ListUsers returns every registered user, ordered by id.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	respondJSON(w, http.StatusOK, newUserViews(users))
}

// DeleteUser removes a user and all of their history records. Admins cannot
// delete their own account.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Token is missing")
		return
	}
	if caller.ID == id {
		respondError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.users.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User and their history deleted successfully"})
}

// GetStats returns aggregate counts. The completed/pending split has no
// backing status field; it is kept for response compatibility only.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	totalUsers, err := h.users.CountUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to count users")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}
	totalHistory, err := h.history.CountRecords()
	if err != nil {
		log.Error().Err(err).Msg("Failed to count history records")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"total_users":       totalUsers,
		"total_history":     totalHistory,
		"completed_history": 0,
		"pending_history":   totalHistory,
	})
}

// ListHistory returns every history record with its owner's username.
func (h *AdminHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	respondJSON(w, http.StatusOK, newHistoryViews(records))
}
