package service

import (
	"math"
	"sync"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// SafetyProfile selects the centroid-deviation limit used by the
// center-of-mass sub-score.
type SafetyProfile string

const (
	ProfileConservative SafetyProfile = "conservative"
	ProfileStandard     SafetyProfile = "standard"
	ProfileLiberal      SafetyProfile = "liberal"
)

// Safety limit bounds in centimeters; custom limits are clamped into
// this range.
const (
	MinSafetyLimitCm = 1.0
	MaxSafetyLimitCm = 60.0
)

// profileLimits maps each profile to its deviation limit in centimeters.
var profileLimits = map[SafetyProfile]float64{
	ProfileConservative: 20,
	ProfileStandard:     30,
	ProfileLiberal:      40,
}

// Composite weights for the stability index.
const (
	centerOfMassWeight       = 0.6
	weightDistributionWeight = 0.4
)

// idealQuadrantShare is the quadrant weight percentage of a perfectly
// balanced load. It is also the worst-case standard deviation, reached
// when all weight sits in one quadrant.
const idealQuadrantShare = 25.0

// StabilityCalculator rates how stable the current stack is.
type StabilityCalculator interface {
	// Compute combines the centroid-deviation sub-score with the
	// quadrant-balance sub-score. centroid may be nil when no centroid
	// data is available.
	Compute(boxes []model.Box, centroid *model.Centroid) model.StabilityResult

	// SetSafetyLimitCm replaces the deviation limit at runtime. The value
	// is clamped to the supported centimeter range.
	SetSafetyLimitCm(limitCm float64)

	// SetSafetyProfile selects a named deviation limit at runtime.
	// Unknown profiles fall back to the standard limit.
	SetSafetyProfile(profile SafetyProfile)

	// SafetyLimitCm returns the limit currently in effect.
	SafetyLimitCm() float64
}

// StabilityOption configures a StabilityService.
type StabilityOption func(*StabilityService)

// StabilityService implements StabilityCalculator.
type StabilityService struct {
	mu      sync.RWMutex
	limitCm float64
}

// NewStabilityService creates a StabilityService with the standard safety
// profile unless overridden by options.
func NewStabilityService(opts ...StabilityOption) *StabilityService {
	s := &StabilityService{limitCm: profileLimits[ProfileStandard]}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithSafetyProfile selects a named safety profile.
func WithSafetyProfile(profile SafetyProfile) StabilityOption {
	return func(s *StabilityService) {
		if limit, ok := profileLimits[profile]; ok {
			s.limitCm = limit
		}
	}
}

// WithSafetyLimitCm sets a custom deviation limit in centimeters, clamped
// to the supported range.
func WithSafetyLimitCm(limitCm float64) StabilityOption {
	return func(s *StabilityService) {
		s.limitCm = clampLimit(limitCm)
	}
}

// SetSafetyLimitCm replaces the deviation limit at runtime.
func (s *StabilityService) SetSafetyLimitCm(limitCm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limitCm = clampLimit(limitCm)
}

// SetSafetyProfile selects a named deviation limit at runtime.
func (s *StabilityService) SetSafetyProfile(profile SafetyProfile) {
	limit, ok := profileLimits[profile]
	if !ok {
		limit = profileLimits[ProfileStandard]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limitCm = limit
}

// SafetyLimitCm returns the limit currently in effect.
func (s *StabilityService) SafetyLimitCm() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limitCm
}

// Compute blends the two sub-scores into the composite index.
func (s *StabilityService) Compute(boxes []model.Box, centroid *model.Centroid) model.StabilityResult {
	com := s.centerOfMassScore(centroid)
	wd := weightDistributionScore(boxes)

	value := centerOfMassWeight*com + weightDistributionWeight*wd
	return model.StabilityResult{
		Value:                   value,
		CenterOfMassScore:       com,
		WeightDistributionScore: wd,
		Rating:                  model.RatingFor(value),
	}
}

// centerOfMassScore rates the horizontal centroid deviation against the
// safety limit. Past the limit the score drops to zero outright; there is
// no further decay. With no centroid data the score is neutral.
func (s *StabilityService) centerOfMassScore(centroid *model.Centroid) float64 {
	if centroid == nil {
		return 100
	}
	limit := s.SafetyLimitCm()
	if centroid.DeviationCm > limit {
		return 0
	}
	return math.Max(0, (1-centroid.DeviationCm/limit)*100)
}

// weightDistributionScore rates how evenly the box weight spreads over the
// four footprint quadrants. Zero or one weighted box is trivially perfect.
func weightDistributionScore(boxes []model.Box) float64 {
	var quadrants [4]float64
	var total float64
	counted := 0
	for _, box := range boxes {
		if box.WeightGrams <= 0 {
			continue
		}
		w := box.WeightKg()
		quadrants[quadrantFor(box.Position)] += w
		total += w
		counted++
	}
	if counted <= 1 || total <= 0 {
		return 100
	}

	shares := make([]float64, 4)
	for i, q := range quadrants {
		shares[i] = q / total * 100
	}

	// Population standard deviation about the ideal 25% share.
	sd := math.Sqrt(stat.MomentAbout(2, shares, idealQuadrantShare, nil))
	return math.Max(0, (1-sd/idealQuadrantShare)*100)
}

// quadrantFor partitions the footprint by sign of X and Z.
func quadrantFor(p model.Vec3) int {
	q := 0
	if p.X < 0 {
		q |= 1
	}
	if p.Z < 0 {
		q |= 2
	}
	return q
}

// clampLimit clamps a custom safety limit into the supported range.
func clampLimit(limitCm float64) float64 {
	if limitCm < MinSafetyLimitCm {
		return MinSafetyLimitCm
	}
	if limitCm > MaxSafetyLimitCm {
		return MaxSafetyLimitCm
	}
	return limitCm
}
