package card

import (
	"fmt"

	"github.com/meur/buildforge/internal/models"
)

const imageRoot = "/img"

// WeaponImageURL is the image path of a weapon by its image id
func WeaponImageURL(splID int) string {
	return fmt.Sprintf("%s/weapons/%d.png", imageRoot, splID)
}

// GearImageURL is the image path of a gear item. Unset items use a placeholder.
func GearImageURL(slot models.GearSlot, item string) string {
	if item == "" {
		item = "unknown"
	}
	return fmt.Sprintf("%s/gear/%s/%s.png", imageRoot, slot, item)
}

// ModeImageURL is the image path of a mode icon
func ModeImageURL(mode models.Mode) string {
	return fmt.Sprintf("%s/modes/%s.png", imageRoot, mode)
}

// AbilityImageURL is the image path of an ability icon
func AbilityImageURL(a models.Ability) string {
	return fmt.Sprintf("%s/abilities/%s.png", imageRoot, a)
}
