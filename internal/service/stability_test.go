//go:build !integration

package service

import (
	"testing"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestNewStabilityService_Defaults(t *testing.T) {
	svc := NewStabilityService()
	assert.Equal(t, 30.0, svc.SafetyLimitCm())
}

func TestStabilityService_Options(t *testing.T) {
	tests := []struct {
		name      string
		opts      []StabilityOption
		wantLimit float64
	}{
		{
			name:      "conservative profile",
			opts:      []StabilityOption{WithSafetyProfile(ProfileConservative)},
			wantLimit: 20,
		},
		{
			name:      "liberal profile",
			opts:      []StabilityOption{WithSafetyProfile(ProfileLiberal)},
			wantLimit: 40,
		},
		{
			name:      "unknown profile keeps standard",
			opts:      []StabilityOption{WithSafetyProfile("reckless")},
			wantLimit: 30,
		},
		{
			name:      "custom limit",
			opts:      []StabilityOption{WithSafetyLimitCm(25)},
			wantLimit: 25,
		},
		{
			name:      "custom limit clamped high",
			opts:      []StabilityOption{WithSafetyLimitCm(500)},
			wantLimit: MaxSafetyLimitCm,
		},
		{
			name:      "custom limit clamped low",
			opts:      []StabilityOption{WithSafetyLimitCm(0)},
			wantLimit: MinSafetyLimitCm,
		},
		{
			name:      "explicit limit overrides profile",
			opts:      []StabilityOption{WithSafetyProfile(ProfileLiberal), WithSafetyLimitCm(25)},
			wantLimit: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewStabilityService(tt.opts...)
			assert.Equal(t, tt.wantLimit, svc.SafetyLimitCm())
		})
	}
}

func TestStabilityService_RuntimeSetters(t *testing.T) {
	svc := NewStabilityService()

	svc.SetSafetyLimitCm(12)
	assert.Equal(t, 12.0, svc.SafetyLimitCm())

	svc.SetSafetyLimitCm(1000)
	assert.Equal(t, MaxSafetyLimitCm, svc.SafetyLimitCm())

	svc.SetSafetyProfile(ProfileConservative)
	assert.Equal(t, 20.0, svc.SafetyLimitCm())

	// Unknown profiles fall back to standard rather than erroring.
	svc.SetSafetyProfile("aggressive")
	assert.Equal(t, 30.0, svc.SafetyLimitCm())
}

func TestStabilityService_Compute(t *testing.T) {
	quadBoxes := []model.Box{
		{Position: model.Vec3{X: 1, Z: 1}, WeightGrams: 1000},
		{Position: model.Vec3{X: -1, Z: 1}, WeightGrams: 1000},
		{Position: model.Vec3{X: 1, Z: -1}, WeightGrams: 1000},
		{Position: model.Vec3{X: -1, Z: -1}, WeightGrams: 1000},
	}

	tests := []struct {
		name       string
		boxes      []model.Box
		centroid   *model.Centroid
		wantValue  float64
		wantCoM    float64
		wantWD     float64
		wantRating model.StabilityRating
	}{
		{
			name:       "empty load is perfectly stable",
			boxes:      nil,
			centroid:   nil,
			wantValue:  100,
			wantCoM:    100,
			wantWD:     100,
			wantRating: model.RatingExcellent,
		},
		{
			name:       "missing centroid scores neutral",
			boxes:      quadBoxes,
			centroid:   nil,
			wantValue:  100,
			wantCoM:    100,
			wantWD:     100,
			wantRating: model.RatingExcellent,
		},
		{
			name:       "centroid at half the limit",
			boxes:      []model.Box{{Position: model.Vec3{X: 1, Z: 1}, WeightGrams: 1000}},
			centroid:   &model.Centroid{DeviationCm: 15},
			wantValue:  70,
			wantCoM:    50,
			wantWD:     100,
			wantRating: model.RatingGood,
		},
		{
			name:       "centroid past the limit scores zero",
			boxes:      nil,
			centroid:   &model.Centroid{DeviationCm: 45},
			wantValue:  40,
			wantCoM:    0,
			wantWD:     100,
			wantRating: model.RatingPoor,
		},
		{
			name:       "balanced quadrants keep full distribution score",
			boxes:      quadBoxes,
			centroid:   &model.Centroid{DeviationCm: 0},
			wantValue:  100,
			wantCoM:    100,
			wantWD:     100,
			wantRating: model.RatingExcellent,
		},
		{
			name: "all weight in one quadrant zeroes the distribution score",
			boxes: []model.Box{
				{Position: model.Vec3{X: 1, Z: 1}, WeightGrams: 1000},
				{Position: model.Vec3{X: 2, Z: 2}, WeightGrams: 1000},
			},
			centroid:   &model.Centroid{DeviationCm: 0},
			wantValue:  60,
			wantCoM:    100,
			wantWD:     0,
			wantRating: model.RatingFair,
		},
	}

	svc := NewStabilityService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Compute(tt.boxes, tt.centroid)

			assert.InDelta(t, tt.wantValue, result.Value, 1e-9)
			assert.InDelta(t, tt.wantCoM, result.CenterOfMassScore, 1e-9)
			assert.InDelta(t, tt.wantWD, result.WeightDistributionScore, 1e-9)
			assert.Equal(t, tt.wantRating, result.Rating)
		})
	}
}

func TestStabilityService_Compute_SingleBoxDistribution(t *testing.T) {
	svc := NewStabilityService()

	// One weighted box cannot be unbalanced.
	result := svc.Compute([]model.Box{
		{Position: model.Vec3{X: 5, Z: 3}, WeightGrams: 9000},
	}, nil)
	assert.InDelta(t, 100, result.WeightDistributionScore, 1e-9)

	// Weightless boxes are not counted toward the distribution.
	result = svc.Compute([]model.Box{
		{Position: model.Vec3{X: 5, Z: 3}, WeightGrams: 0},
		{Position: model.Vec3{X: -5, Z: -3}, WeightGrams: 0},
	}, nil)
	assert.InDelta(t, 100, result.WeightDistributionScore, 1e-9)
}

func TestRatingFor_Bands(t *testing.T) {
	tests := []struct {
		value float64
		want  model.StabilityRating
	}{
		{100, model.RatingExcellent},
		{85, model.RatingExcellent},
		{84.9, model.RatingGood},
		{70, model.RatingGood},
		{69.9, model.RatingFair},
		{55, model.RatingFair},
		{54.9, model.RatingPoor},
		{40, model.RatingPoor},
		{39.9, model.RatingCritical},
		{0, model.RatingCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.RatingFor(tt.value), "value %v", tt.value)
	}
}
