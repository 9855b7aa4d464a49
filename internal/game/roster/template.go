// Package roster sources the combatants that enter battles: YAML monster
// templates, the built-in demo line-up and opponent rotation.
package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// Template defines a monster loaded from YAML.
type Template struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Strength     int    `yaml:"strength"`
	Agility      int    `yaml:"agility"`
	Intelligence int    `yaml:"intelligence"`
	Level        int    `yaml:"level"`
	// Origin is cosmetic; empty defaults to "demo".
	Origin string `yaml:"origin"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, all stats are >= 0
// and Level >= 1; otherwise returns an error on the first violation.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("roster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("roster template %q: name must not be empty", t.ID)
	}
	if t.Strength < 0 || t.Agility < 0 || t.Intelligence < 0 {
		return fmt.Errorf("roster template %q: stats must be >= 0", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("roster template %q: level must be >= 1", t.ID)
	}
	return nil
}

// Combatant converts the template into a battle input record.
func (t Template) Combatant() battle.Combatant {
	origin := battle.Origin(t.Origin)
	if origin == "" {
		origin = battle.OriginDemo
	}
	return battle.Combatant{
		ID:           t.ID,
		Name:         t.Name,
		Strength:     t.Strength,
		Agility:      t.Agility,
		Intelligence: t.Intelligence,
		Level:        t.Level,
		Origin:       origin,
	}
}

// LoadTemplatesFromBytes parses a YAML list of templates.
//
// Postcondition: Returns validated templates with unique ids, or an error.
func LoadTemplatesFromBytes(data []byte) ([]Template, error) {
	var tmpls []Template
	if err := yaml.Unmarshal(data, &tmpls); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	seen := make(map[string]bool, len(tmpls))
	for _, t := range tmpls {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("roster template %q: duplicate id", t.ID)
		}
		seen[t.ID] = true
	}
	return tmpls, nil
}

// LoadTemplatesFromFile reads and parses one YAML template list.
func LoadTemplatesFromFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tmpls, err := LoadTemplatesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return tmpls, nil
}
