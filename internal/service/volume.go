package service

import (
	"math"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/loadsight/pallet-analysis/internal/logger"
)

// cmPerUnit converts the externally supplied stack height from
// centimeters to engine units.
const cmPerUnit = 10.0

// VolumeCalculator compares the summed geometric box volume against the
// nominal volume available under the current stack height.
type VolumeCalculator interface {
	Compute(boxes []model.Box, heightCm float64) model.VolumeResult
}

// VolumeOption configures a VolumeService.
type VolumeOption func(*VolumeService)

// VolumeService implements VolumeCalculator over a fixed pallet base.
type VolumeService struct {
	footprint Footprint
}

// NewVolumeService creates a VolumeService with the given options.
func NewVolumeService(opts ...VolumeOption) *VolumeService {
	s := &VolumeService{footprint: DefaultFootprint()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithVolumeFootprint sets the pallet base used for the available volume.
func WithVolumeFootprint(f Footprint) VolumeOption {
	return func(s *VolumeService) {
		if f.Length > 0 && f.Width > 0 {
			s.footprint = f
		}
	}
}

// Compute returns the occupancy of the nominal volume under heightCm.
// Zero boxes or a non-positive height yields the all-zero baseline, never
// a division error. Efficiency is capped at 100: overlapping or
// mis-measured geometry must not report an impossible occupancy.
func (s *VolumeService) Compute(boxes []model.Box, heightCm float64) model.VolumeResult {
	if len(boxes) == 0 || heightCm <= 0 {
		return model.VolumeResult{}
	}

	var occupied float64
	counted := 0
	for _, box := range boxes {
		v := box.Volume()
		if v <= 0 {
			log := logger.Logger()
			log.Warn().
				Int("sequence", box.Sequence).
				Msg("Box has degenerate volume, skipping")
			continue
		}
		occupied += v
		counted++
	}

	available := s.footprint.Length * s.footprint.Width * (heightCm / cmPerUnit)
	if available <= 0 {
		return model.VolumeResult{BoxCount: counted}
	}

	return model.VolumeResult{
		OccupiedVolume:    occupied,
		AvailableVolume:   available,
		EfficiencyPercent: math.Min(100, occupied/available*100),
		BoxCount:          counted,
	}
}
