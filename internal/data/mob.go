package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MobTemplate holds the static movement data of a mob type.
type MobTemplate struct {
	MobID    int32  `yaml:"mob_id"`
	Name     string `yaml:"name"`
	Level    int16  `yaml:"level"`
	Speed    int16  `yaml:"speed"`     // -100..100, 0 = default walk
	FlySpeed int16  `yaml:"fly_speed"` // only for flying mobs
	CanFly   bool   `yaml:"fly"`
	CanJump  bool   `yaml:"jump"`
	NoFlip   bool   `yaml:"no_flip"`
	Undead   bool   `yaml:"undead"`
}

// WalkSpeed converts Speed into pixels per tick.
func (m *MobTemplate) WalkSpeed() float64 {
	return float64(m.Speed+100) * 0.001
}

// AirSpeed converts FlySpeed into pixels per tick.
func (m *MobTemplate) AirSpeed() float64 {
	return float64(m.FlySpeed+100) * 0.0005
}

type mobListFile struct {
	Mobs []MobTemplate `yaml:"mobs"`
}

// MobTable holds all mob templates indexed by MobID. A nil table is empty.
type MobTable struct {
	templates map[int32]*MobTemplate
}

// LoadMobTable loads mob templates from a YAML file.
func LoadMobTable(path string) (*MobTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mob list: %w", err)
	}
	var f mobListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse mob list %s: %w", path, err)
	}
	t := &MobTable{templates: make(map[int32]*MobTemplate, len(f.Mobs))}
	for i := range f.Mobs {
		mob := &f.Mobs[i]
		t.templates[mob.MobID] = mob
	}
	return t, nil
}

// Get returns a mob template by ID, or nil if not found.
func (t *MobTable) Get(mobID int32) *MobTemplate {
	if t == nil {
		return nil
	}
	return t.templates[mobID]
}

func (t *MobTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.templates)
}
