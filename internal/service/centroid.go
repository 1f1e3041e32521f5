package service

import (
	"math"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
)

// CentroidProvider supplies the 3-D center of mass of the current box
// list. The stability calculator consumes it as an opaque dependency so
// hosts can substitute their own implementation.
type CentroidProvider interface {
	// Centroid returns nil when no centroid can be derived from the boxes.
	Centroid(boxes []model.Box) *model.Centroid
}

// MassCentroidProvider is the default CentroidProvider: a plain
// weight-averaged centroid over the boxes that carry weight.
type MassCentroidProvider struct{}

// NewMassCentroidProvider returns the default centroid provider.
func NewMassCentroidProvider() *MassCentroidProvider {
	return &MassCentroidProvider{}
}

// Centroid computes the weight-averaged position and its horizontal
// deviation from the pallet center in centimeters.
func (p *MassCentroidProvider) Centroid(boxes []model.Box) *model.Centroid {
	var sumW, sumX, sumZ float64
	for _, box := range boxes {
		if box.WeightGrams <= 0 {
			continue
		}
		w := box.WeightKg()
		sumW += w
		sumX += w * box.Position.X
		sumZ += w * box.Position.Z
	}
	if sumW <= 0 {
		return nil
	}

	x := sumX / sumW
	z := sumZ / sumW
	deviationCm := math.Hypot(x, z) * cmPerUnit

	return &model.Centroid{
		X:           x,
		Z:           z,
		DeviationCm: deviationCm,
		Rating:      deviationRating(deviationCm),
	}
}

// deviationRating is a coarse qualitative band for display purposes.
func deviationRating(deviationCm float64) string {
	switch {
	case deviationCm <= 5:
		return "centered"
	case deviationCm <= 15:
		return "acceptable"
	default:
		return "off-center"
	}
}
