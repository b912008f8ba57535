package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/buildforge/internal/models"
)

// handleGetPreferences returns a user's view settings, defaults included
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prefs, err := s.prefs.GetPreferences(r.Context(), userID)
	if err != nil {
		s.log.Error("get preferences", zap.String("user", userID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// handleUpdatePreferences stores a user's view settings
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req models.PreferencesUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.ValidateStruct(&req); err != nil {
		respondValidation(w, FormatValidationError(err))
		return
	}

	prefs := models.Preferences{UserID: userID, PrefersAPView: *req.PrefersAPView}
	if err := s.prefs.SetPreferences(r.Context(), prefs); err != nil {
		s.log.Error("set preferences", zap.String("user", userID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}
