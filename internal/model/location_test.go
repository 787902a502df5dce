package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint3_WeightedDistance(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point3
		weight float64
		want   float64
	}{
		{
			name:   "same point",
			a:      NewPoint3(10, 20, 30),
			b:      NewPoint3(10, 20, 30),
			weight: 4,
			want:   0,
		},
		{
			name:   "planar only",
			a:      NewPoint3(0, 0, 0),
			b:      NewPoint3(3, 4, 0),
			weight: 4,
			want:   5,
		},
		{
			name:   "vertical weighted",
			a:      NewPoint3(0, 0, 0),
			b:      NewPoint3(0, 0, 100),
			weight: 1.5,
			want:   150,
		},
		{
			name:   "vertical ignored with zero weight",
			a:      NewPoint3(0, 0, -500),
			b:      NewPoint3(0, 0, 500),
			weight: 0,
			want:   0,
		},
		{
			name:   "mixed axes",
			a:      NewPoint3(1, 2, 3),
			b:      NewPoint3(4, 6, 4),
			weight: 2,
			want:   math.Sqrt(9 + 16 + 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.WeightedDistance(tt.b, tt.weight), 1e-9)
			assert.InDelta(t, tt.want, tt.b.WeightedDistance(tt.a, tt.weight), 1e-9, "distance must be symmetric")
		})
	}
}

func TestPoint3_PlanarNeverExceedsWeighted(t *testing.T) {
	a := NewPoint3(100, -50, 30)
	b := NewPoint3(-20, 70, 900)
	for _, w := range []float64{0, 0.25, 1, 4} {
		assert.LessOrEqual(t, a.PlanarDistanceSquared(b), a.WeightedDistanceSquared(b, w))
	}
}

func TestPoint3_HeadingTo(t *testing.T) {
	origin := NewPoint3(0, 0, 0)

	tests := []struct {
		name   string
		target Point3
		want   float64
	}{
		{"north", NewPoint3(0, 10, 0), 0},
		{"east", NewPoint3(10, 0, 0), math.Pi / 2},
		{"south", NewPoint3(0, -10, 0), math.Pi},
		{"west", NewPoint3(-10, 0, 0), 3 * math.Pi / 2},
		{"height ignored", NewPoint3(0, 10, 500), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, origin.HeadingTo(tt.target), 1e-9)
		})
	}
}
