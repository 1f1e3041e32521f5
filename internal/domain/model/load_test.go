//go:build !integration

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_WeightKg(t *testing.T) {
	assert.InDelta(t, 2.5, Box{WeightGrams: 2500}.WeightKg(), 1e-9)
	assert.Zero(t, Box{}.WeightKg())
}

func TestBox_Volume(t *testing.T) {
	box := Box{Dimensions: Vec3{X: 4, Y: 2, Z: 3}}
	assert.InDelta(t, 24.0, box.Volume(), 1e-9)

	degenerate := Box{Dimensions: Vec3{X: 4, Z: 3}}
	assert.Zero(t, degenerate.Volume())
}

func TestBox_Footprint(t *testing.T) {
	box := Box{
		Position:   Vec3{X: 1, Y: 5, Z: -2},
		Dimensions: Vec3{X: 4, Y: 2, Z: 2},
	}

	fp := box.Footprint()
	assert.InDelta(t, -1.0, fp.MinX, 1e-9)
	assert.InDelta(t, 3.0, fp.MaxX, 1e-9)
	assert.InDelta(t, -3.0, fp.MinZ, 1e-9)
	assert.InDelta(t, -1.0, fp.MaxZ, 1e-9)
	assert.InDelta(t, 8.0, fp.Area(), 1e-9)
}

func TestRect_Area(t *testing.T) {
	assert.InDelta(t, 6.0, Rect{MinX: 0, MaxX: 2, MinZ: 0, MaxZ: 3}.Area(), 1e-9)
	// Degenerate and inverted rectangles have zero area.
	assert.Zero(t, Rect{MinX: 1, MaxX: 1, MinZ: 0, MaxZ: 3}.Area())
	assert.Zero(t, Rect{MinX: 2, MaxX: 0, MinZ: 0, MaxZ: 3}.Area())
}

func TestRect_Intersection(t *testing.T) {
	a := Rect{MinX: 0, MaxX: 4, MinZ: 0, MaxZ: 4}

	tests := []struct {
		name string
		b    Rect
		want float64
	}{
		{name: "full overlap", b: Rect{MinX: 0, MaxX: 4, MinZ: 0, MaxZ: 4}, want: 16},
		{name: "partial overlap", b: Rect{MinX: 2, MaxX: 6, MinZ: 2, MaxZ: 6}, want: 4},
		{name: "contained", b: Rect{MinX: 1, MaxX: 2, MinZ: 1, MaxZ: 3}, want: 2},
		{name: "touching edge", b: Rect{MinX: 4, MaxX: 8, MinZ: 0, MaxZ: 4}, want: 0},
		{name: "disjoint", b: Rect{MinX: 10, MaxX: 12, MinZ: 10, MaxZ: 12}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, a.Intersection(tt.b), 1e-9)
			// Intersection is symmetric.
			assert.InDelta(t, tt.want, tt.b.Intersection(a), 1e-9)
		})
	}
}

func orderWithItemTypes(types ...int) *Order {
	boxes := make([]Box, len(types))
	for i, it := range types {
		boxes[i] = Box{Sequence: i, ItemType: it, WeightGrams: 1000}
	}
	return &Order{
		ID:          1,
		PalletCount: 1,
		Pallets:     []Pallet{{ID: 1, Boxes: boxes}},
	}
}

func TestOrder_AssignColors(t *testing.T) {
	t.Run("types are sorted before assignment", func(t *testing.T) {
		// File order 7, 3, 5: ascending type order decides the palette slot.
		order := orderWithItemTypes(7, 3, 5)
		order.AssignColors()

		assert.Equal(t, ColorPalette[0], order.ColorFor(3))
		assert.Equal(t, ColorPalette[1], order.ColorFor(5))
		assert.Equal(t, ColorPalette[2], order.ColorFor(7))
	})

	t.Run("deterministic across rebuilds", func(t *testing.T) {
		order := orderWithItemTypes(4, 1, 9, 1, 4)
		order.AssignColors()
		first := order.Colors()

		order.AssignColors()
		assert.Equal(t, first, order.Colors())
	})

	t.Run("palette cycles when exhausted", func(t *testing.T) {
		types := make([]int, len(ColorPalette)+2)
		for i := range types {
			types[i] = i
		}
		order := orderWithItemTypes(types...)
		order.AssignColors()

		assert.Equal(t, ColorPalette[0], order.ColorFor(len(ColorPalette)))
		assert.Equal(t, ColorPalette[1], order.ColorFor(len(ColorPalette)+1))
	})

	t.Run("unknown item type has no color", func(t *testing.T) {
		order := orderWithItemTypes(1, 2)
		order.AssignColors()
		assert.Empty(t, order.ColorFor(42))
	})

	t.Run("colors returns a copy", func(t *testing.T) {
		order := orderWithItemTypes(1)
		order.AssignColors()

		colors := order.Colors()
		require.NotEmpty(t, colors)
		colors[1] = "#000000"
		assert.Equal(t, ColorPalette[0], order.ColorFor(1))
	})
}
