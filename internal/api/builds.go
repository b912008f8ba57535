package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/buildforge/internal/builds"
	"github.com/meur/buildforge/internal/card"
	"github.com/meur/buildforge/internal/metrics"
	"github.com/meur/buildforge/internal/models"
	"github.com/meur/buildforge/internal/storage"
)

// handleSearchBuilds returns one revealed page of a weapon's builds,
// filtered down to those carrying every requested ability
func (s *Server) handleSearchBuilds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weapon := q.Get("weapon")

	if weapon != "" && !s.catalog.Has(weapon) {
		respondError(w, http.StatusBadRequest, "Unknown weapon")
		return
	}

	selected, err := builds.ParseSelection(abilityParams(q["ability"]))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			respondError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
	}

	all, err := s.store.SearchBuilds(r.Context(), weapon)
	if err != nil {
		s.log.Error("search builds", zap.String("weapon", weapon), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch builds")
		return
	}

	filtered := builds.FilterBuilds(all, selected)
	metrics.BuildSearches.WithLabelValues(strconv.FormatBool(len(selected) > 0)).Inc()
	metrics.FilteredBuilds.Observe(float64(len(filtered)))

	respondJSON(w, http.StatusOK, builds.Reveal(filtered, page, s.pageSize))
}

// abilityParams accepts both repeated and comma separated ability params
func abilityParams(values []string) []string {
	var out []string
	for _, v := range values {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				out = append(out, code)
			}
		}
	}
	return out
}

// handleGetBuild returns a build by ID
func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	build, err := s.store.GetBuild(r.Context(), id)
	if err != nil {
		s.log.Error("get build", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch build")
		return
	}
	if build == nil {
		respondError(w, http.StatusNotFound, "Build not found")
		return
	}

	respondJSON(w, http.StatusOK, build)
}

// handleGetBuildCard returns the card view of a build for the requesting viewer
func (s *Server) handleGetBuildCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	build, err := s.store.GetBuild(r.Context(), id)
	if err != nil {
		s.log.Error("get build", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch build")
		return
	}
	if build == nil {
		respondError(w, http.StatusNotFound, "Build not found")
		return
	}

	userID := r.URL.Query().Get("user")
	prefs := models.DefaultPreferences(userID)
	if userID != "" && s.prefs != nil {
		prefs, err = s.prefs.GetPreferences(r.Context(), userID)
		if err != nil {
			s.log.Error("get preferences", zap.String("user", userID), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to fetch preferences")
			return
		}
	}

	opts := card.Options{
		Language:    s.catalog.Language(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")),
		Preferences: prefs,
	}
	respondJSON(w, http.StatusOK, card.Render(build, s.catalog, opts))
}

// handleCreateBuild creates a new build
func (s *Server) handleCreateBuild(w http.ResponseWriter, r *http.Request) {
	var req models.BuildUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := s.validate.ValidateBuild(&req); errs != nil {
		respondValidation(w, errs)
		return
	}

	build, err := s.store.CreateBuild(r.Context(), &req)
	if err != nil {
		metrics.BuildWrites.WithLabelValues("create", "error").Inc()
		s.log.Error("create build", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create build")
		return
	}

	metrics.BuildWrites.WithLabelValues("create", "ok").Inc()
	s.log.Info("build created", zap.String("id", build.ID), zap.String("weapon", build.Weapon))
	respondJSON(w, http.StatusCreated, build)
}

// handleUpdateBuild applies the updateBuild mutation. The response only
// says whether it was accepted.
func (s *Server) handleUpdateBuild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.BuildUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := s.validate.ValidateBuild(&update); errs != nil {
		metrics.BuildWrites.WithLabelValues("update", "rejected").Inc()
		respondValidation(w, errs)
		return
	}

	err := s.store.UpdateBuild(r.Context(), id, &update)
	if errors.Is(err, storage.ErrBuildNotFound) {
		metrics.BuildWrites.WithLabelValues("update", "rejected").Inc()
		respondError(w, http.StatusNotFound, "Build not found")
		return
	}
	if err != nil {
		metrics.BuildWrites.WithLabelValues("update", "error").Inc()
		s.log.Error("update build", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update build")
		return
	}

	metrics.BuildWrites.WithLabelValues("update", "ok").Inc()
	s.log.Info("build updated", zap.String("id", id), zap.String("weapon", update.Weapon))
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleDeleteBuild deletes a build by ID
func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.store.DeleteBuild(r.Context(), id)
	if errors.Is(err, storage.ErrBuildNotFound) {
		respondError(w, http.StatusNotFound, "Build not found")
		return
	}
	if err != nil {
		metrics.BuildWrites.WithLabelValues("delete", "error").Inc()
		s.log.Error("delete build", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete build")
		return
	}

	metrics.BuildWrites.WithLabelValues("delete", "ok").Inc()
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func respondValidation(w http.ResponseWriter, errs map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "Invalid request",
		"fields": errs,
	})
}
