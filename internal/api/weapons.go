package api

import (
	"net/http"

	"github.com/meur/buildforge/internal/card"
	"github.com/meur/buildforge/internal/models"
)

type weaponEntry struct {
	ID       string `json:"id"`
	Class    string `json:"class"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// handleGetWeapons lists selectable weapons with names in the viewer's language
func (s *Server) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	tag := s.catalog.Language(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))

	list := s.catalog.Weapons()
	out := make([]weaponEntry, 0, len(list))
	for _, wp := range list {
		out = append(out, weaponEntry{
			ID:       wp.ID,
			Class:    wp.Class,
			Key:      wp.Key,
			Name:     s.catalog.Name(wp.ID, tag),
			ImageURL: card.WeaponImageURL(wp.SplID),
		})
	}

	respondJSON(w, http.StatusOK, out)
}

type abilityEntry struct {
	Ability  models.Ability  `json:"ability"`
	MainOnly models.GearSlot `json:"main_only,omitempty"`
	ImageURL string          `json:"image_url"`
}

// handleGetAbilities lists abilities in game order for the filter picker
func (s *Server) handleGetAbilities(w http.ResponseWriter, r *http.Request) {
	order := models.AbilitiesGameOrder()
	out := make([]abilityEntry, 0, len(order))
	for _, a := range order {
		slot, _ := a.MainOnlySlot()
		out = append(out, abilityEntry{Ability: a, MainOnly: slot, ImageURL: card.AbilityImageURL(a)})
	}

	respondJSON(w, http.StatusOK, out)
}
