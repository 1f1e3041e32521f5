// Package model defines the core domain entities for the pallet analysis service.
package model

import "sort"

// UnitMillimeters is the number of millimeters in one engine unit.
// Crosslog files express geometry in millimeters; every derived position
// and dimension in the model is stored in engine units.
const UnitMillimeters = 100.0

// Vec3 is a point or extent in engine units. X and Z span the pallet
// footprint, Y points up through the stack.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box represents one placed box parsed from a Crosslog pallet section.
//
// Position is the box center relative to the pallet's geometric center,
// Dimensions are the box extents, both in engine units. Sequence defines
// the placement order within the pallet; values are unique but need not
// be contiguous.
type Box struct {
	// Position is the box center, recentred on the pallet footprint.
	Position Vec3 `json:"position"`
	// Dimensions holds width (X), height (Y) and depth (Z) extents.
	Dimensions Vec3 `json:"dimensions"`
	// Sequence is the placement order within the pallet.
	Sequence int `json:"sequence"`
	// ItemType groups boxes of the same article for color assignment.
	ItemType int `json:"item_type"`
	// WeightGrams is the box weight as declared in the file.
	WeightGrams float64 `json:"weight_grams"`
	// Factor is a secondary factor carried through from the file.
	// It is stored for forward compatibility and not consumed by any calculator.
	Factor float64 `json:"factor"`
	// Irregular marks boxes flagged as irregular by the optimizer.
	Irregular bool `json:"irregular"`
}

// WeightKg returns the box weight in kilograms.
func (b Box) WeightKg() float64 {
	return b.WeightGrams / 1000.0
}

// Volume returns the geometric box volume in cubic engine units.
func (b Box) Volume() float64 {
	return b.Dimensions.X * b.Dimensions.Y * b.Dimensions.Z
}

// Footprint returns the 2-D axis-aligned rectangle the box occupies on the
// pallet base, ignoring height.
func (b Box) Footprint() Rect {
	return Rect{
		MinX: b.Position.X - b.Dimensions.X/2,
		MaxX: b.Position.X + b.Dimensions.X/2,
		MinZ: b.Position.Z - b.Dimensions.Z/2,
		MaxZ: b.Position.Z + b.Dimensions.Z/2,
	}
}

// Rect is an axis-aligned rectangle on the pallet base plane, in engine units.
type Rect struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// Area returns the rectangle area, zero for degenerate rectangles.
func (r Rect) Area() float64 {
	w := r.MaxX - r.MinX
	d := r.MaxZ - r.MinZ
	if w <= 0 || d <= 0 {
		return 0
	}
	return w * d
}

// Intersection returns the overlap area between two rectangles.
func (r Rect) Intersection(o Rect) float64 {
	w := min(r.MaxX, o.MaxX) - max(r.MinX, o.MinX)
	d := min(r.MaxZ, o.MaxZ) - max(r.MinZ, o.MinZ)
	if w <= 0 || d <= 0 {
		return 0
	}
	return w * d
}

// VolumeMetrics carries the volume figures declared in a pallet section.
// The values are taken verbatim from the file and are not recomputed.
type VolumeMetrics struct {
	TotalVolume    float64 `json:"total_volume"`
	OccupiedVolume float64 `json:"occupied_volume"`
	Efficiency1    float64 `json:"efficiency_1"`
	Efficiency2    float64 `json:"efficiency_2"`
}

// Pallet represents one pallet section of a Crosslog file.
type Pallet struct {
	ID int `json:"id"`
	// Length, Width and Height are the pallet dimensions in millimeters,
	// as declared in the file header line.
	LengthMM float64 `json:"length_mm"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	// Weight is the empty pallet weight, TotalLoad the declared loaded weight.
	Weight    float64       `json:"weight"`
	TotalLoad float64       `json:"total_load"`
	Volume    VolumeMetrics `json:"volume"`
	// Boxes holds the pallet's boxes in file order.
	Boxes []Box `json:"boxes"`
}

// Order is the validated in-memory representation of one parsed file.
// It is created once per load and replaced wholesale on the next load.
type Order struct {
	ID          int      `json:"id"`
	PalletCount int      `json:"pallet_count"`
	Pallets     []Pallet `json:"pallets"`

	colors map[int]string
}

// ColorPalette is the fixed palette item types are assigned from. Unique
// item types are sorted ascending and assigned in order, cycling when the
// palette is exhausted, so repeated loads of the same file always render
// the same colors.
var ColorPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff",
	"#9a6324", "#fffac8", "#800000", "#aaffc3",
}

// AssignColors builds the deterministic item-type color table. It must be
// called once after a full file has been parsed; subsequent calls rebuild
// the same table.
func (o *Order) AssignColors() {
	seen := make(map[int]struct{})
	var types []int
	for _, p := range o.Pallets {
		for _, b := range p.Boxes {
			if _, ok := seen[b.ItemType]; !ok {
				seen[b.ItemType] = struct{}{}
				types = append(types, b.ItemType)
			}
		}
	}
	sort.Ints(types)

	o.colors = make(map[int]string, len(types))
	for i, t := range types {
		o.colors[t] = ColorPalette[i%len(ColorPalette)]
	}
}

// ColorFor returns the palette color assigned to the given item type, or
// the empty string for item types not present in the order.
func (o *Order) ColorFor(itemType int) string {
	return o.colors[itemType]
}

// Colors returns the full item-type color table.
func (o *Order) Colors() map[int]string {
	out := make(map[int]string, len(o.colors))
	for k, v := range o.colors {
		out[k] = v
	}
	return out
}
