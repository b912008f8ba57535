package models

import (
	"time"
)

// Build is a saved loadout: a weapon plus three gear pieces and their abilities
type Build struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	Weapon       string    `json:"weapon"`
	Headgear     []Ability `json:"headgear"`
	HeadgearItem string    `json:"headgear_item,omitempty"`
	Clothing     []Ability `json:"clothing"`
	ClothingItem string    `json:"clothing_item,omitempty"`
	Shoes        []Ability `json:"shoes"`
	ShoesItem    string    `json:"shoes_item,omitempty"`
	Modes        []Mode    `json:"modes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Abilities returns the ability list of one gear slot
func (b *Build) Abilities(slot GearSlot) []Ability {
	switch slot {
	case SlotHead:
		return b.Headgear
	case SlotClothing:
		return b.Clothing
	case SlotShoes:
		return b.Shoes
	}
	return nil
}

// Item returns the gear item identifier of one slot
func (b *Build) Item(slot GearSlot) string {
	switch slot {
	case SlotHead:
		return b.HeadgearItem
	case SlotClothing:
		return b.ClothingItem
	case SlotShoes:
		return b.ShoesItem
	}
	return ""
}

// BuildUpdate is the request body for creating or updating a build.
// Every field is sent; nil optionals clear the stored value.
type BuildUpdate struct {
	Weapon       string    `json:"weapon" validate:"required,max=64,weapon"`
	Title        *string   `json:"title,omitempty" validate:"omitempty,max=100"`
	Description  *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Headgear     []Ability `json:"headgear" validate:"required,min=1,max=4,dive,ability"`
	HeadgearItem *string   `json:"headgear_item,omitempty" validate:"omitempty,max=64"`
	Clothing     []Ability `json:"clothing" validate:"required,min=1,max=4,dive,ability"`
	ClothingItem *string   `json:"clothing_item,omitempty" validate:"omitempty,max=64"`
	Shoes        []Ability `json:"shoes" validate:"required,min=1,max=4,dive,ability"`
	ShoesItem    *string   `json:"shoes_item,omitempty" validate:"omitempty,max=64"`
	Modes        []Mode    `json:"modes,omitempty" validate:"omitempty,unique,dive,mode"`
}

// Slots checks main-only placement on all three gear pieces
func (u *BuildUpdate) Slots() error {
	for _, slot := range GearSlots() {
		var abilities []Ability
		switch slot {
		case SlotHead:
			abilities = u.Headgear
		case SlotClothing:
			abilities = u.Clothing
		case SlotShoes:
			abilities = u.Shoes
		}
		if err := ValidateSlot(slot, abilities); err != nil {
			return err
		}
	}
	return nil
}

// BuildList is one revealed page of a filtered build search
type BuildList struct {
	Builds  []Build `json:"builds"`
	Page    int     `json:"page"`
	Visible int     `json:"visible"`
	Total   int     `json:"total"`
	HasMore bool    `json:"has_more"`
}
