package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArchetypeTemplate holds static data for an entity archetype loaded from
// YAML.
type ArchetypeTemplate struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"` // generic, player, block
	ViewDistance int    `yaml:"view_distance"`
	Script       string `yaml:"script"` // lua tick hook, empty = inert
	TickEvery    int    `yaml:"tick_every"`
}

type archetypeFile struct {
	Archetypes []ArchetypeTemplate `yaml:"archetypes"`
}

// ArchetypeTable holds all archetype templates indexed by name.
type ArchetypeTable struct {
	templates map[string]*ArchetypeTemplate
}

// LoadArchetypeTable loads archetype templates from a YAML file.
func LoadArchetypeTable(path string) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype list: %w", err)
	}
	var f archetypeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse archetype list: %w", err)
	}
	t := &ArchetypeTable{templates: make(map[string]*ArchetypeTemplate, len(f.Archetypes))}
	for i := range f.Archetypes {
		a := &f.Archetypes[i]
		if a.Name == "" {
			return nil, fmt.Errorf("archetype list: entry %d has no name", i)
		}
		t.templates[a.Name] = a
	}
	return t, nil
}

// Get returns the template for an archetype name, nil if unknown.
func (t *ArchetypeTable) Get(name string) *ArchetypeTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *ArchetypeTable) Count() int {
	return len(t.templates)
}
