// Package card turns a stored build into the view model a build card renders.
package card

import (
	"sort"

	"golang.org/x/text/language"

	"github.com/meur/buildforge/internal/builds"
	"github.com/meur/buildforge/internal/models"
	"github.com/meur/buildforge/internal/weapons"
)

// Ability icon sizes
const (
	SizeMain = "MAIN"
	SizeSub  = "SUB"
)

// Default card views
const (
	ViewGear = "gear"
	ViewAP   = "ap"
)

// View is everything a build card shows
type View struct {
	ID            string         `json:"id"`
	Title         string         `json:"title,omitempty"`
	Description   string         `json:"description,omitempty"`
	Modes         []ModeIcon     `json:"modes,omitempty"`
	Date          string         `json:"date"`
	Weapons       []WeaponIcon   `json:"weapons"`
	WeaponText    string         `json:"weapon_text,omitempty"`
	Gear          []GearRow      `json:"gear"`
	AbilityPoints []AbilityTotal `json:"ability_points"`
	DefaultView   string         `json:"default_view"`
}

type ModeIcon struct {
	Mode     models.Mode `json:"mode"`
	ImageURL string      `json:"image_url"`
}

type WeaponIcon struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type GearRow struct {
	Slot      models.GearSlot `json:"slot"`
	Item      string          `json:"item,omitempty"`
	ImageURL  string          `json:"image_url"`
	Abilities []AbilityIcon   `json:"abilities"`
}

type AbilityIcon struct {
	Ability  models.Ability `json:"ability"`
	Size     string         `json:"size"`
	ImageURL string         `json:"image_url"`
}

type AbilityTotal struct {
	Ability models.Ability `json:"ability"`
	Points  int            `json:"points"`
}

// Options carries the per-viewer inputs of a render
type Options struct {
	Language    language.Tag
	Preferences models.Preferences
}

// Render builds the card view of b
func Render(b *models.Build, catalog *weapons.Catalog, opts Options) View {
	v := View{
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		Date:          FormatDate(b.UpdatedAt, opts.Language),
		Weapons:       renderWeapons([]string{b.Weapon}, catalog, opts.Language),
		AbilityPoints: abilityTotals(b),
		DefaultView:   ViewGear,
	}
	if opts.Preferences.PrefersAPView {
		v.DefaultView = ViewAP
	}

	for _, m := range b.Modes {
		v.Modes = append(v.Modes, ModeIcon{Mode: m, ImageURL: ModeImageURL(m)})
	}

	if len(v.Weapons) == 1 {
		v.WeaponText = v.Weapons[0].Name
	}

	for _, slot := range models.GearSlots() {
		row := GearRow{
			Slot:      slot,
			Item:      b.Item(slot),
			ImageURL:  GearImageURL(slot, b.Item(slot)),
			Abilities: []AbilityIcon{},
		}
		for i, a := range b.Abilities(slot) {
			size := SizeSub
			if i == 0 {
				size = SizeMain
			}
			row.Abilities = append(row.Abilities, AbilityIcon{Ability: a, Size: size, ImageURL: AbilityImageURL(a)})
		}
		v.Gear = append(v.Gear, row)
	}

	return v
}

func renderWeapons(ids []string, catalog *weapons.Catalog, tag language.Tag) []WeaponIcon {
	icons := make([]WeaponIcon, 0, len(ids))
	for _, id := range ids {
		icon := WeaponIcon{ID: id, Name: catalog.Name(id, tag)}
		if w, ok := catalog.Lookup(id); ok {
			icon.ImageURL = WeaponImageURL(w.SplID)
		}
		icons = append(icons, icon)
	}
	return icons
}

// abilityTotals lists AP per ability, highest first, ties in game order
func abilityTotals(b *models.Build) []AbilityTotal {
	points := builds.AbilityPoints(b)
	order := make(map[models.Ability]int)
	for i, a := range models.AbilitiesGameOrder() {
		order[a] = i
	}

	totals := make([]AbilityTotal, 0, len(points))
	for a, p := range points {
		totals = append(totals, AbilityTotal{Ability: a, Points: p})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		return order[totals[i].Ability] < order[totals[j].Ability]
	})
	return totals
}
