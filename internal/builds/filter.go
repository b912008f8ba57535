// Package builds holds the listing logic applied to fetched builds:
// ability filtering, incremental reveal and ability point totals.
package builds

import (
	"github.com/meur/buildforge/internal/models"
)

// AbilitySet is a set of abilities. The zero value is an empty selection.
type AbilitySet map[models.Ability]struct{}

// NewAbilitySet builds a set from a list, collapsing duplicates
func NewAbilitySet(abilities ...models.Ability) AbilitySet {
	set := make(AbilitySet, len(abilities))
	for _, a := range abilities {
		set[a] = struct{}{}
	}
	return set
}

// ParseSelection turns ability codes into a selection.
// Unknown codes are rejected.
func ParseSelection(codes []string) (AbilitySet, error) {
	set := make(AbilitySet, len(codes))
	for _, c := range codes {
		a, err := models.ParseAbility(c)
		if err != nil {
			return nil, err
		}
		set[a] = struct{}{}
	}
	return set, nil
}

// Has reports whether a is in the set
func (s AbilitySet) Has(a models.Ability) bool {
	_, ok := s[a]
	return ok
}

// Covers reports whether every ability in other is also in s
func (s AbilitySet) Covers(other AbilitySet) bool {
	for a := range other {
		if !s.Has(a) {
			return false
		}
	}
	return true
}

// Sorted returns the members in game order
func (s AbilitySet) Sorted() []models.Ability {
	out := make([]models.Ability, 0, len(s))
	for _, a := range models.AbilitiesGameOrder() {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// GearAbilities is the union of abilities across the three gear slots.
// Repeats across slots count once.
func GearAbilities(b *models.Build) AbilitySet {
	set := make(AbilitySet, len(b.Headgear)+len(b.Clothing)+len(b.Shoes))
	for _, slot := range models.GearSlots() {
		for _, a := range b.Abilities(slot) {
			set[a] = struct{}{}
		}
	}
	return set
}

// Matches reports whether the build carries every selected ability
func Matches(b *models.Build, selected AbilitySet) bool {
	if len(selected) == 0 {
		return true
	}
	return GearAbilities(b).Covers(selected)
}

// FilterBuilds keeps the builds whose gear covers the selection, in order.
// An empty selection returns builds unchanged.
func FilterBuilds(builds []models.Build, selected AbilitySet) []models.Build {
	if len(selected) == 0 {
		return builds
	}
	out := make([]models.Build, 0, len(builds))
	for i := range builds {
		if Matches(&builds[i], selected) {
			out = append(out, builds[i])
		}
	}
	return out
}
