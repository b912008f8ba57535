// Package weapons loads the catalog of weapon identifiers and their
// translated display names.
package weapons

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Weapon is one entry of the catalog
type Weapon struct {
	ID    string `yaml:"id" json:"id"`
	SplID int    `yaml:"spl_id" json:"spl_id"`
	Class string `yaml:"class" json:"class"`
	Key   string `yaml:"key" json:"key"`
}

type catalogFile struct {
	Languages    []string                     `yaml:"languages"`
	Weapons      []Weapon                     `yaml:"weapons"`
	Translations map[string]map[string]string `yaml:"translations"`
}

// Catalog maps weapon identifiers to image ids and translation keys
type Catalog struct {
	weapons      []Weapon
	byID         map[string]Weapon
	tags         []language.Tag
	translations []map[string]string // indexed like tags
	matcher      language.Matcher
}

// Default loads the catalog shipped with the binary
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// Load parses and validates a YAML catalog
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse weapon catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid weapon catalog: %w", err)
	}

	c := &Catalog{
		weapons: f.Weapons,
		byID:    make(map[string]Weapon, len(f.Weapons)),
	}
	for _, w := range f.Weapons {
		c.byID[w.ID] = w
	}
	for _, lang := range f.Languages {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog language %q: %w", lang, err)
		}
		c.tags = append(c.tags, tag)
		c.translations = append(c.translations, f.Translations[lang])
	}
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}

func (f *catalogFile) validate() error {
	if len(f.Languages) == 0 {
		return errors.New("no languages listed")
	}
	if len(f.Weapons) == 0 {
		return errors.New("no weapons listed")
	}

	var problems []string
	for _, lang := range f.Languages {
		if _, ok := f.Translations[lang]; !ok {
			problems = append(problems, fmt.Sprintf("language %s has no translations", lang))
		}
	}

	ids := make(map[string]bool, len(f.Weapons))
	splIDs := make(map[int]bool, len(f.Weapons))
	for i, w := range f.Weapons {
		switch {
		case w.ID == "":
			problems = append(problems, fmt.Sprintf("weapon #%d has no id", i))
			continue
		case ids[w.ID]:
			problems = append(problems, fmt.Sprintf("duplicate weapon id %s", w.ID))
		}
		ids[w.ID] = true

		if w.SplID < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative spl_id", w.ID))
		} else if splIDs[w.SplID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate spl_id %d", w.ID, w.SplID))
		}
		splIDs[w.SplID] = true

		if w.Key == "" {
			problems = append(problems, fmt.Sprintf("%s: no translation key", w.ID))
			continue
		}
		for _, lang := range f.Languages {
			if name := f.Translations[lang][w.Key]; name == "" {
				problems = append(problems, fmt.Sprintf("%s: key %s missing in %s", w.ID, w.Key, lang))
			}
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Weapons returns all weapons in catalog order
func (c *Catalog) Weapons() []Weapon {
	out := make([]Weapon, len(c.weapons))
	copy(out, c.weapons)
	return out
}

// Lookup returns the weapon with the given identifier
func (c *Catalog) Lookup(id string) (Weapon, bool) {
	w, ok := c.byID[id]
	return w, ok
}

// Has reports whether id is a known weapon
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Language picks the best supported language for the given preferences.
// Each preference may be a tag or an Accept-Language header value.
// Falls back to the first catalog language.
func (c *Catalog) Language(prefs ...string) language.Tag {
	_, idx := language.MatchStrings(c.matcher, prefs...)
	return c.tags[idx]
}

// Name returns the translated display name of a weapon.
// Unknown weapons return their identifier unchanged.
func (c *Catalog) Name(id string, tag language.Tag) string {
	w, ok := c.byID[id]
	if !ok {
		return id
	}
	_, idx, _ := c.matcher.Match(tag)
	return c.translations[idx][w.Key]
}
