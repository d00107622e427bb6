package proximity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"echogrove/pkg/engine/world"
)

func TestCompute(t *testing.T) {
	target := world.Pt(400, 300)

	tests := []struct {
		name   string
		cursor world.Point
		radius float64
		want   float64
	}{
		{"on target", target, 200, 1},
		{"half radius", world.Pt(500, 300), 200, 0.5},
		{"at radius", world.Pt(600, 300), 200, 0},
		{"beyond radius", world.Pt(0, 0), 200, 0},
		{"zero radius on target", target, 0, 1},
		{"zero radius off target", world.Pt(401, 300), 0, 0},
		{"negative radius", world.Pt(401, 300), -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.cursor, target, tt.radius)
			assert.InDelta(t, tt.want, got.Proximity, 1e-9)
		})
	}
}

func TestComputeAlwaysInUnitRange(t *testing.T) {
	target := world.Pt(250, 180)
	for x := 0.0; x <= 800; x += 37 {
		for y := 0.0; y <= 600; y += 41 {
			r := Compute(world.Pt(x, y), target, 150)
			if r.Proximity < 0 || r.Proximity > 1 || math.IsNaN(r.Proximity) {
				t.Fatalf("Compute(%v, %v) = %v, want value in [0,1]", x, y, r.Proximity)
			}
		}
	}
}

func TestFound(t *testing.T) {
	target := world.Pt(100, 100)
	assert.True(t, Found(Compute(world.Pt(110, 100), target, 200), FoundThreshold))
	assert.False(t, Found(Compute(world.Pt(115, 100), target, 200), FoundThreshold))
	assert.True(t, Found(Compute(target, target, 200), FoundThreshold))
}

func TestFloor(t *testing.T) {
	assert.Equal(t, 0.0, Floor(0.2, 0.5))
	assert.Equal(t, 0.5, Floor(0.5, 0.5))
	assert.Equal(t, 0.9, Floor(0.9, 0))
}
