package creatures

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echogrove/pkg/game/level"
)

func TestDefaultDataset(t *testing.T) {
	ds := Default()
	require.Len(t, ds.Creatures, level.TotalLevels)
	assert.Equal(t, []string{"Owl", "Fox", "Deer", "Squirrel", "Phoenix"}, ds.Names())

	wantFreq := map[string]float64{"owl": 400, "fox": 600, "deer": 300, "squirrel": 800, "phoenix": 500}
	for _, c := range ds.Creatures {
		assert.Equal(t, wantFreq[c.ID], c.BaseFrequency(), c.ID)
		assert.NotEmpty(t, c.Facts, c.ID)
		assert.NotEmpty(t, c.Glyph, c.ID)
	}

	owl, err := ds.ForLevel(1)
	require.NoError(t, err)
	freq, d := owl.Call()
	assert.Equal(t, 400.0, freq)
	assert.Equal(t, 2*time.Second, d)
}

func TestForLevelMissing(t *testing.T) {
	_, err := Default().ForLevel(9)
	assert.True(t, errors.Is(err, ErrNoCreature))
}

func TestParseRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing levels", `creatures: [{id: owl, name: Owl, level: 1, position: {x: 1, y: 1}, facts: [a]}]`},
		{"outside area", `creatures: [{id: owl, name: Owl, level: 1, position: {x: 900, y: 1}, facts: [a]}]`},
		{"no facts", `creatures: [{id: owl, name: Owl, level: 1, position: {x: 1, y: 1}}]`},
		{"bad level", `creatures: [{id: owl, name: Owl, level: 7, position: {x: 1, y: 1}, facts: [a]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}

	_, err := Parse([]byte("creatures: ["))
	assert.Error(t, err)
}

func TestCreatureDefaults(t *testing.T) {
	c := Creature{}
	assert.Equal(t, DefaultFrequency, c.BaseFrequency())
	_, d := c.Call()
	assert.Equal(t, DefaultCallDuration, d)
	assert.Equal(t, "", c.RandomFact(rand.New(rand.NewSource(1))))

	diff, _ := level.DifficultyFor(3)
	assert.Equal(t, diff.DetectionRadius, c.Radius(diff))
	c.DetectionRadius = 42
	assert.Equal(t, 42.0, c.Radius(diff))
}

func TestRandomFactIsFromList(t *testing.T) {
	c, _ := Default().ForLevel(2)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		assert.Contains(t, c.Facts, c.RandomFact(rng))
	}
}
