package service

import (
	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/loadsight/pallet-analysis/internal/logger"
	"gonum.org/v1/gonum/stat"
)

// Default grid resolution: 50 mm cells over a 1200x800 mm pallet base.
const (
	DefaultGridRows = 16
	DefaultGridCols = 24
)

// Default pallet footprint in engine units (EUR pallet, 1200x800 mm).
const (
	DefaultFootprintLength = 12.0
	DefaultFootprintWidth  = 8.0
)

// balanceThreshold is the coefficient-of-variation limit below which the
// load is considered balanced.
const balanceThreshold = 0.5

// Footprint is the pallet base rectangle the grid is laid over, centered
// on the origin. Length spans X, Width spans Z, both in engine units.
type Footprint struct {
	Length float64
	Width  float64
}

// DefaultFootprint returns the EUR pallet base.
func DefaultFootprint() Footprint {
	return Footprint{Length: DefaultFootprintLength, Width: DefaultFootprintWidth}
}

// FootprintFromMillimeters converts pallet dimensions from millimeters to
// an engine-unit footprint.
func FootprintFromMillimeters(lengthMM, widthMM float64) Footprint {
	return Footprint{
		Length: lengthMM / model.UnitMillimeters,
		Width:  widthMM / model.UnitMillimeters,
	}
}

// Rect returns the footprint as a centered rectangle.
func (f Footprint) Rect() model.Rect {
	return model.Rect{
		MinX: -f.Length / 2, MaxX: f.Length / 2,
		MinZ: -f.Width / 2, MaxZ: f.Width / 2,
	}
}

// WeightGridCalculator computes the weight distribution of a box list over
// the pallet base grid.
type WeightGridCalculator interface {
	Compute(boxes []model.Box) model.WeightGridResult
}

// WeightGridOption configures a WeightGridService.
type WeightGridOption func(*WeightGridService)

// WeightGridService implements WeightGridCalculator. It projects each box
// footprint onto a fixed R x C grid, splitting the box weight across the
// intersected cells in proportion to each cell's share of the total
// intersecting area. That keeps the grid total equal to the summed box
// weights no matter how many cells a box spans.
type WeightGridService struct {
	rows      int
	cols      int
	footprint Footprint
}

// NewWeightGridService creates a WeightGridService with the given options.
func NewWeightGridService(opts ...WeightGridOption) *WeightGridService {
	s := &WeightGridService{
		rows:      DefaultGridRows,
		cols:      DefaultGridCols,
		footprint: DefaultFootprint(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithGridResolution sets the grid resolution. Non-positive values are ignored.
func WithGridResolution(rows, cols int) WeightGridOption {
	return func(s *WeightGridService) {
		if rows > 0 && cols > 0 {
			s.rows = rows
			s.cols = cols
		}
	}
}

// WithFootprint sets the pallet base the grid covers.
func WithFootprint(f Footprint) WeightGridOption {
	return func(s *WeightGridService) {
		if f.Length > 0 && f.Width > 0 {
			s.footprint = f
		}
	}
}

// Compute projects the given boxes onto the grid. Boxes with non-positive
// weight, degenerate footprints, or no overlap with the pallet base are
// skipped with a warning; one malformed box must not blank the dashboard.
func (s *WeightGridService) Compute(boxes []model.Box) model.WeightGridResult {
	result := model.WeightGridResult{
		Rows:  s.rows,
		Cols:  s.cols,
		Cells: newGrid(s.rows, s.cols),
		// Absence of load is not instability.
		Balanced: true,
	}

	cellW := s.footprint.Length / float64(s.cols)
	cellD := s.footprint.Width / float64(s.rows)
	base := s.footprint.Rect()

	for _, box := range boxes {
		if !countable(box) {
			result.SkippedBoxes++
			continue
		}
		fp := box.Footprint()

		// Grid cells the footprint can touch.
		minCol := cellIndex(fp.MinX-base.MinX, cellW, s.cols)
		maxCol := cellIndex(fp.MaxX-base.MinX, cellW, s.cols)
		minRow := cellIndex(fp.MinZ-base.MinZ, cellD, s.rows)
		maxRow := cellIndex(fp.MaxZ-base.MinZ, cellD, s.rows)

		type share struct {
			row, col int
			area     float64
		}
		var shares []share
		var totalArea float64
		for r := minRow; r <= maxRow; r++ {
			for c := minCol; c <= maxCol; c++ {
				cell := model.Rect{
					MinX: base.MinX + float64(c)*cellW,
					MaxX: base.MinX + float64(c+1)*cellW,
					MinZ: base.MinZ + float64(r)*cellD,
					MaxZ: base.MinZ + float64(r+1)*cellD,
				}
				if a := fp.Intersection(cell); a > 0 {
					shares = append(shares, share{row: r, col: c, area: a})
					totalArea += a
				}
			}
		}
		if totalArea <= 0 {
			log := logger.Logger()
			log.Warn().
				Int("sequence", box.Sequence).
				Msg("Box footprint outside pallet base, skipping")
			result.SkippedBoxes++
			continue
		}

		// Distribute by share of the total intersecting area, not the
		// cell's own area, so the full box weight lands on the grid.
		weight := box.WeightKg()
		for _, sh := range shares {
			result.Cells[sh.row][sh.col] += weight * (sh.area / totalArea)
		}
		result.TotalWeightKg += weight
	}

	s.summarize(&result, cellW, cellD, base)
	return result
}

// summarize fills the aggregate fields from the populated grid.
func (s *WeightGridService) summarize(result *model.WeightGridResult, cellW, cellD float64, base model.Rect) {
	if result.TotalWeightKg <= 0 {
		return
	}

	var occupied []float64
	var momentX, momentZ float64
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			w := result.Cells[r][c]
			if w <= 0 {
				continue
			}
			occupied = append(occupied, w)
			if w > result.MaxCellWeightKg {
				result.MaxCellWeightKg = w
			}
			// Each cell acts as a point mass at its center.
			cx := base.MinX + (float64(c)+0.5)*cellW
			cz := base.MinZ + (float64(r)+0.5)*cellD
			momentX += w * cx
			momentZ += w * cz
		}
	}

	result.OccupancyPercent = float64(len(occupied)) / float64(s.rows*s.cols) * 100
	result.CentroidX = momentX / result.TotalWeightKg
	result.CentroidZ = momentZ / result.TotalWeightKg

	mean := stat.Mean(occupied, nil)
	if mean > 0 {
		cv := stat.PopStdDev(occupied, nil) / mean
		result.Balanced = cv < balanceThreshold
	}
}

// countable reports whether a box carries usable weight and geometry.
func countable(box model.Box) bool {
	if box.WeightGrams <= 0 {
		log := logger.Logger()
		log.Warn().
			Int("sequence", box.Sequence).
			Float64("weight_grams", box.WeightGrams).
			Msg("Box has no usable weight, skipping")
		return false
	}
	if box.Footprint().Area() <= 0 {
		log := logger.Logger()
		log.Warn().
			Int("sequence", box.Sequence).
			Msg("Box has degenerate footprint, skipping")
		return false
	}
	return true
}

// cellIndex maps a coordinate offset from the grid origin to a clamped
// cell index.
func cellIndex(offset, cellSize float64, count int) int {
	idx := int(offset / cellSize)
	if idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// newGrid allocates an all-zero row-major grid.
func newGrid(rows, cols int) [][]float64 {
	cells := make([][]float64, rows)
	for r := range cells {
		cells[r] = make([]float64, cols)
	}
	return cells
}
