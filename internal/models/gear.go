package models

import "fmt"

// GearSlot is one of the three gear pieces of a build
type GearSlot string

const (
	SlotHead     GearSlot = "head"
	SlotClothing GearSlot = "clothing"
	SlotShoes    GearSlot = "shoes"
)

// MaxSubAbilities is how many sub slots a gear piece carries
const MaxSubAbilities = 3

// GearSlots returns the slots in display order
func GearSlots() []GearSlot {
	return []GearSlot{SlotHead, SlotClothing, SlotShoes}
}

// ValidateSlot checks the abilities placed on one gear piece.
// Index 0 is the main ability, the rest are subs.
func ValidateSlot(slot GearSlot, abilities []Ability) error {
	if len(abilities) == 0 {
		return fmt.Errorf("%s: main ability is required", slot)
	}
	if len(abilities) > 1+MaxSubAbilities {
		return fmt.Errorf("%s: at most %d sub abilities allowed", slot, MaxSubAbilities)
	}
	for i, a := range abilities {
		if !a.Valid() {
			return fmt.Errorf("%s: unknown ability %q", slot, a)
		}
		bound, ok := a.MainOnlySlot()
		if !ok {
			continue
		}
		if i != 0 {
			return fmt.Errorf("%s: %s can only be a main ability", slot, a)
		}
		if bound != slot {
			return fmt.Errorf("%s: %s is a %s-only ability", slot, a, bound)
		}
	}
	return nil
}
