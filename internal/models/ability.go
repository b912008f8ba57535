package models

import "fmt"

// Ability is a gear ability code
type Ability string

const (
	InkSaverMain    Ability = "ISM"
	InkSaverSub     Ability = "ISS"
	InkRecoveryUp   Ability = "REC"
	RunSpeedUp      Ability = "RSU"
	SwimSpeedUp     Ability = "SSU"
	SpecialChargeUp Ability = "SCU"
	SpecialSaver    Ability = "SS"
	SpecialPowerUp  Ability = "SPU"
	QuickRespawn    Ability = "QR"
	QuickSuperJump  Ability = "QSJ"
	SubPowerUp      Ability = "BRU"
	InkResistanceUp Ability = "RES"
	BombDefenseUp   Ability = "BDU"
	MainPowerUp     Ability = "MPU"
	OpeningGambit   Ability = "OG"
	LastDitchEffort Ability = "LDE"
	Tenacity        Ability = "T"
	Comeback        Ability = "CB"
	NinjaSquid      Ability = "NS"
	Haunt           Ability = "H"
	ThermalInk      Ability = "TI"
	RespawnPunisher Ability = "RP"
	AbilityDoubler  Ability = "AD"
	StealthJump     Ability = "SJ"
	ObjectShredder  Ability = "OS"
	DropRoller      Ability = "DR"
)

// abilitiesGameOrder is the order abilities appear in game menus
var abilitiesGameOrder = []Ability{
	InkSaverMain, InkSaverSub, InkRecoveryUp, RunSpeedUp, SwimSpeedUp,
	SpecialChargeUp, SpecialSaver, SpecialPowerUp, QuickRespawn, QuickSuperJump,
	SubPowerUp, InkResistanceUp, BombDefenseUp, MainPowerUp,
	OpeningGambit, LastDitchEffort, Tenacity, Comeback,
	NinjaSquid, Haunt, ThermalInk, RespawnPunisher, AbilityDoubler,
	StealthJump, ObjectShredder, DropRoller,
}

// mainOnly maps abilities that may only be the main of one gear slot
var mainOnly = map[Ability]GearSlot{
	OpeningGambit:   SlotHead,
	LastDitchEffort: SlotHead,
	Tenacity:        SlotHead,
	Comeback:        SlotHead,
	NinjaSquid:      SlotClothing,
	Haunt:           SlotClothing,
	ThermalInk:      SlotClothing,
	RespawnPunisher: SlotClothing,
	AbilityDoubler:  SlotClothing,
	StealthJump:     SlotShoes,
	ObjectShredder:  SlotShoes,
	DropRoller:      SlotShoes,
}

var knownAbilities = func() map[Ability]struct{} {
	m := make(map[Ability]struct{}, len(abilitiesGameOrder))
	for _, a := range abilitiesGameOrder {
		m[a] = struct{}{}
	}
	return m
}()

// AbilitiesGameOrder returns every ability in game menu order
func AbilitiesGameOrder() []Ability {
	out := make([]Ability, len(abilitiesGameOrder))
	copy(out, abilitiesGameOrder)
	return out
}

// ParseAbility converts a code into an Ability
func ParseAbility(s string) (Ability, error) {
	a := Ability(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown ability %q", s)
	}
	return a, nil
}

// Valid reports whether a is part of the ability set
func (a Ability) Valid() bool {
	_, ok := knownAbilities[a]
	return ok
}

// MainOnlySlot returns the slot a main-only ability is bound to
func (a Ability) MainOnlySlot() (GearSlot, bool) {
	slot, ok := mainOnly[a]
	return slot, ok
}
