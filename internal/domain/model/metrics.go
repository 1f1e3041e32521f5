package model

import "time"

// WeightGridResult is the output of one weight-distribution computation.
// Cells hold accumulated weight in kilograms; the sum over all cells equals
// the sum of all contributing box weights.
//
// @Description Weight distribution over the pallet base grid
type WeightGridResult struct {
	// Rows and Cols give the grid resolution; Cells is row-major.
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
	Cells [][]float64 `json:"cells"`
	// TotalWeightKg is the summed weight of all counted boxes.
	TotalWeightKg float64 `json:"total_weight_kg"`
	// MaxCellWeightKg is the heaviest single cell.
	MaxCellWeightKg float64 `json:"max_cell_weight_kg"`
	// OccupancyPercent is the share of cells carrying any weight.
	OccupancyPercent float64 `json:"occupancy_percent"`
	// Balanced is true when the coefficient of variation across occupied
	// cells is below the balance threshold, and by convention for an
	// empty grid.
	Balanced bool `json:"balanced"`
	// Centroid is the grid-derived center of mass on the base plane,
	// used to cross-check the externally supplied centroid.
	CentroidX float64 `json:"centroid_x"`
	CentroidZ float64 `json:"centroid_z"`
	// SkippedBoxes counts boxes excluded for missing weight or
	// degenerate geometry.
	SkippedBoxes int `json:"skipped_boxes"`
}

// StabilityRating is the qualitative band for a stability index value.
type StabilityRating string

const (
	RatingExcellent StabilityRating = "Excellent"
	RatingGood      StabilityRating = "Good"
	RatingFair      StabilityRating = "Fair"
	RatingPoor      StabilityRating = "Poor"
	RatingCritical  StabilityRating = "Critical"
)

// RatingFor maps a composite stability value to its qualitative band.
func RatingFor(value float64) StabilityRating {
	switch {
	case value >= 85:
		return RatingExcellent
	case value >= 70:
		return RatingGood
	case value >= 55:
		return RatingFair
	case value >= 40:
		return RatingPoor
	default:
		return RatingCritical
	}
}

// StabilityResult is the output of one load-stability computation.
//
// @Description Composite 0-100 load stability index
type StabilityResult struct {
	// Value is the composite index, 0.6*CenterOfMassScore + 0.4*WeightDistributionScore.
	Value float64 `json:"value"`
	// CenterOfMassScore rates the centroid deviation against the safety limit.
	CenterOfMassScore float64 `json:"center_of_mass_score"`
	// WeightDistributionScore rates the quadrant weight balance.
	WeightDistributionScore float64         `json:"weight_distribution_score"`
	Rating                  StabilityRating `json:"rating"`
}

// VolumeResult is the output of one volume-efficiency computation.
// Volumes are in cubic engine units.
//
// @Description Volume occupancy of the current stack
type VolumeResult struct {
	OccupiedVolume  float64 `json:"occupied_volume"`
	AvailableVolume float64 `json:"available_volume"`
	// EfficiencyPercent is capped at 100 regardless of supplied geometry.
	EfficiencyPercent float64 `json:"efficiency_percent"`
	BoxCount          int     `json:"box_count"`
}

// Centroid is the weight-averaged position of the placed boxes, as
// produced by a centroid provider. DeviationCm is the horizontal distance
// from the pallet center in centimeters.
type Centroid struct {
	X           float64 `json:"x"`
	Z           float64 `json:"z"`
	DeviationCm float64 `json:"deviation_cm"`
	Rating      string  `json:"rating,omitempty"`
}

// MetricsSnapshot bundles the outputs of one synchronous recomputation of
// all calculators against an unchanged box list. Snapshots are immutable
// value objects with no identity beyond the call that produced them.
//
// @Description Full dashboard snapshot for the current placed-box set
type MetricsSnapshot struct {
	ComputedAt time.Time        `json:"computed_at"`
	BoxCount   int              `json:"box_count"`
	HeightCm   float64          `json:"height_cm"`
	Grid       WeightGridResult `json:"grid"`
	Stability  StabilityResult  `json:"stability"`
	Volume     VolumeResult     `json:"volume"`
	Centroid   *Centroid        `json:"centroid,omitempty"`
}
