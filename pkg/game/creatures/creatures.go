// Package creatures loads the grove's hidden creature records.
package creatures

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/level"
)

//go:embed creatures.yaml
var embedded []byte

// DefaultFrequency is the proximity tone base for creatures without one.
const DefaultFrequency = 400.0

// DefaultCallDuration is the synthesized call length for creatures without one.
const DefaultCallDuration = 2 * time.Second

var (
	ErrInvalidDataset = errors.New("invalid creature dataset")
	ErrNoCreature     = errors.New("no creature for level")
)

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Creature is a hidden animal in one grove.
type Creature struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Level           int           `yaml:"level"`
	Position        world.Point   `yaml:"position"`
	DetectionRadius float64       `yaml:"detection_radius"`
	SoundFile       string        `yaml:"sound_file"`
	Frequency       float64       `yaml:"frequency"`
	CallDuration    time.Duration `yaml:"call_duration"`
	Facts           []string      `yaml:"facts"`
	Color           Color         `yaml:"color"`
	Icon            string        `yaml:"icon"`
	Glyph           string        `yaml:"glyph"`
}

// BaseFrequency returns the creature's tone base, defaulting to 400 Hz.
func (c Creature) BaseFrequency() float64 {
	if c.Frequency <= 0 {
		return DefaultFrequency
	}
	return c.Frequency
}

// Call returns the frequency and duration of the synthesized creature call.
func (c Creature) Call() (freq float64, d time.Duration) {
	d = c.CallDuration
	if d <= 0 {
		d = DefaultCallDuration
	}
	return c.BaseFrequency(), d
}

// Radius returns the detection radius, falling back to the level's default.
func (c Creature) Radius(diff level.Difficulty) float64 {
	if c.DetectionRadius > 0 {
		return c.DetectionRadius
	}
	return diff.DetectionRadius
}

// RandomFact picks one fact using rng. Returns "" when there are no facts.
func (c Creature) RandomFact(rng *rand.Rand) string {
	if len(c.Facts) == 0 {
		return ""
	}
	return c.Facts[rng.Intn(len(c.Facts))]
}

// Dataset is the full set of creatures, ordered by level.
type Dataset struct {
	Creatures []Creature `yaml:"creatures"`
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse creatures: %w", err)
	}
	if err := ds.validate(world.DefaultArea()); err != nil {
		return nil, err
	}
	sort.Slice(ds.Creatures, func(i, j int) bool {
		return ds.Creatures[i].Level < ds.Creatures[j].Level
	})
	return &ds, nil
}

// LoadFile reads a dataset from path.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read creatures: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in dataset.
func Default() *Dataset {
	ds, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return ds
}

func (d *Dataset) validate(area world.Area) error {
	seen := make(map[int]string, len(d.Creatures))
	for _, c := range d.Creatures {
		switch {
		case c.ID == "" || c.Name == "":
			return fmt.Errorf("%w: creature at level %d has no id or name", ErrInvalidDataset, c.Level)
		case !level.Valid(c.Level):
			return fmt.Errorf("%w: %s has level %d", ErrInvalidDataset, c.ID, c.Level)
		case len(c.Facts) == 0:
			return fmt.Errorf("%w: %s has no facts", ErrInvalidDataset, c.ID)
		case !area.Contains(c.Position):
			return fmt.Errorf("%w: %s is outside the grove at %v", ErrInvalidDataset, c.ID, c.Position)
		case c.DetectionRadius < 0:
			return fmt.Errorf("%w: %s has negative radius", ErrInvalidDataset, c.ID)
		}
		if other, dup := seen[c.Level]; dup {
			return fmt.Errorf("%w: %s and %s share level %d", ErrInvalidDataset, other, c.ID, c.Level)
		}
		seen[c.Level] = c.ID
	}
	for lvl := 1; lvl <= level.TotalLevels; lvl++ {
		if _, ok := seen[lvl]; !ok {
			return fmt.Errorf("%w: level %d has no creature", ErrInvalidDataset, lvl)
		}
	}
	return nil
}

// ForLevel returns the creature hidden in level.
func (d *Dataset) ForLevel(lvl int) (Creature, error) {
	for _, c := range d.Creatures {
		if c.Level == lvl {
			return c, nil
		}
	}
	return Creature{}, fmt.Errorf("%w %d", ErrNoCreature, lvl)
}

// Names returns creature names in level order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.Creatures))
	for _, c := range d.Creatures {
		names = append(names, c.Name)
	}
	return names
}
