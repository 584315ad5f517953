package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Geometry kinds accepted by collision entries.
const (
	GeometryBox    = "box"
	GeometryCircle = "circle"
)

// Joint kinds accepted by joint entries.
const (
	JointPivot = "pivot"
	JointPin   = "pin"
)

// Scene describes the worlds to build at startup.
type Scene struct {
	Worlds []WorldEntry `yaml:"worlds"`
}

type WorldEntry struct {
	Name   string       `yaml:"name"`
	Models []ModelEntry `yaml:"models"`
}

type ModelEntry struct {
	Name   string       `yaml:"name"`
	Links  []LinkEntry  `yaml:"links"`
	Joints []JointEntry `yaml:"joints"`
}

// LinkEntry is a rigid body. Mass 0 makes a static body.
type LinkEntry struct {
	Name       string           `yaml:"name"`
	Mass       float64          `yaml:"mass"`
	Position   []float64        `yaml:"position"`
	Collisions []CollisionEntry `yaml:"collisions"`
}

type CollisionEntry struct {
	Name     string    `yaml:"name"`
	Geometry string    `yaml:"geometry"`
	Size     []float64 `yaml:"size"`   // box width, height
	Radius   float64   `yaml:"radius"` // circle
	Mesh     bool      `yaml:"mesh"`
}

// JointEntry connects Parent to Child. Child names a link of the enclosing
// model; Parent may be empty (anchored to the world), a local link name, or
// "model::link" for a link of another model in the same world.
type JointEntry struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Parent string    `yaml:"parent"`
	Child  string    `yaml:"child"`
	Anchor []float64 `yaml:"anchor"`
}

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	sc, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return sc, nil
}

// ParseScene decodes and validates a YAML scene document.
func ParseScene(raw []byte) (*Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Count returns the total number of models across all worlds.
func (s *Scene) Count() int {
	n := 0
	for _, w := range s.Worlds {
		n += len(w.Models)
	}
	return n
}

// SplitScoped splits "model::link" into its parts. A bare name has an empty
// model part.
func SplitScoped(name string) (model, link string) {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[:i], name[i+2:]
	}
	return "", name
}

// Vec returns v as an (x, y) pair; missing components are zero.
func Vec(v []float64) (float64, float64) {
	switch len(v) {
	case 0:
		return 0, 0
	case 1:
		return v[0], 0
	}
	return v[0], v[1]
}

func (s *Scene) validate() error {
	for _, w := range s.Worlds {
		if w.Name == "" {
			return fmt.Errorf("world without name")
		}
		models := make(map[string]*ModelEntry, len(w.Models))
		for i := range w.Models {
			m := &w.Models[i]
			if m.Name == "" {
				return fmt.Errorf("world %q: model without name", w.Name)
			}
			// "model::link" references need unique model names
			if _, dup := models[m.Name]; dup {
				return fmt.Errorf("world %q: duplicate model %q", w.Name, m.Name)
			}
			models[m.Name] = m
			if err := m.validateLinks(); err != nil {
				return fmt.Errorf("world %q: model %q: %w", w.Name, m.Name, err)
			}
		}
		for i := range w.Models {
			m := &w.Models[i]
			if err := m.validateJoints(models); err != nil {
				return fmt.Errorf("world %q: model %q: %w", w.Name, m.Name, err)
			}
		}
	}
	return nil
}

func (m *ModelEntry) hasLink(name string) bool {
	for _, l := range m.Links {
		if l.Name == name {
			return true
		}
	}
	return false
}

func (m *ModelEntry) validateLinks() error {
	for _, l := range m.Links {
		if l.Name == "" {
			return fmt.Errorf("link without name")
		}
		if l.Mass < 0 {
			return fmt.Errorf("link %q: negative mass", l.Name)
		}
		if len(l.Position) > 2 {
			return fmt.Errorf("link %q: position takes two components", l.Name)
		}
		for _, c := range l.Collisions {
			switch c.Geometry {
			case GeometryBox:
				if len(c.Size) != 2 || c.Size[0] <= 0 || c.Size[1] <= 0 {
					return fmt.Errorf("collision %q: box needs a positive size pair", c.Name)
				}
			case GeometryCircle:
				if c.Radius <= 0 {
					return fmt.Errorf("collision %q: circle needs a positive radius", c.Name)
				}
			default:
				return fmt.Errorf("collision %q: unknown geometry %q", c.Name, c.Geometry)
			}
		}
	}
	return nil
}

func (m *ModelEntry) validateJoints(models map[string]*ModelEntry) error {
	for _, j := range m.Joints {
		if j.Type != JointPivot && j.Type != JointPin {
			return fmt.Errorf("joint %q: unknown type %q", j.Name, j.Type)
		}
		if !m.hasLink(j.Child) {
			return fmt.Errorf("joint %q: unknown child link %q", j.Name, j.Child)
		}
		if j.Parent == "" {
			if j.Type == JointPin {
				return fmt.Errorf("joint %q: pin joints need a parent link", j.Name)
			}
			continue
		}
		owner, link := SplitScoped(j.Parent)
		target := m
		if owner != "" {
			target = models[owner]
			if target == nil {
				return fmt.Errorf("joint %q: unknown parent model %q", j.Name, owner)
			}
		}
		if !target.hasLink(link) {
			return fmt.Errorf("joint %q: unknown parent link %q", j.Name, j.Parent)
		}
	}
	return nil
}
