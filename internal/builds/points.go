package builds

import "github.com/meur/buildforge/internal/models"

const (
	MainAbilityPoints = 10
	SubAbilityPoints  = 3
)

// AbilityPoints sums ability points per ability across all gear.
// Mains are worth 10 and subs 3.
func AbilityPoints(b *models.Build) map[models.Ability]int {
	points := make(map[models.Ability]int)
	for _, slot := range models.GearSlots() {
		for i, a := range b.Abilities(slot) {
			if i == 0 {
				points[a] += MainAbilityPoints
			} else {
				points[a] += SubAbilityPoints
			}
		}
	}
	return points
}
