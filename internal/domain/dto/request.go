// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"github.com/loadsight/pallet-analysis/internal/domain/model"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validation errors shared across requests.
var (
	// ErrInvalidAction is returned when the step action is unknown.
	ErrInvalidAction = &ValidationError{
		Field:   "action",
		Message: "must be one of place, remove, seek, reset",
	}
	// ErrInvalidStep is returned when a seek step is negative.
	ErrInvalidStep = &ValidationError{
		Field:   "step",
		Message: "must be a non-negative integer",
	}
	// ErrInvalidPalletIndex is returned when the pallet index is negative.
	ErrInvalidPalletIndex = &ValidationError{
		Field:   "pallet",
		Message: "must be a non-negative integer",
	}
	// ErrEmptyBoxes is returned when an analyze request carries no boxes.
	ErrEmptyBoxes = &ValidationError{
		Field:   "boxes",
		Message: "must contain at least one box",
	}
	// ErrInvalidSafetyLimit is returned when neither a profile nor a limit is given.
	ErrInvalidSafetyLimit = &ValidationError{
		Field:   "profile",
		Message: "profile or limit_cm is required",
	}
)

// BoxInput is one box in a stateless analyze request. Geometry is in
// engine units with the position already relative to the pallet center.
//
// @Description One placed box for stateless analysis
type BoxInput struct {
	Position    model.Vec3 `json:"position"`
	Dimensions  model.Vec3 `json:"dimensions"`
	Sequence    int        `json:"sequence"`
	ItemType    int        `json:"item_type"`
	WeightGrams float64    `json:"weight_grams" example:"2500"`
	Irregular   bool       `json:"irregular,omitempty"`
}

// Box converts the input to the domain type.
func (b BoxInput) Box() model.Box {
	return model.Box{
		Position:    b.Position,
		Dimensions:  b.Dimensions,
		Sequence:    b.Sequence,
		ItemType:    b.ItemType,
		WeightGrams: b.WeightGrams,
		Irregular:   b.Irregular,
	}
}

// AnalyzeRequest asks for a one-shot snapshot over an explicit box list.
//
// @Description Stateless analysis request
type AnalyzeRequest struct {
	// Boxes is the current placed-box set.
	Boxes []BoxInput `json:"boxes" binding:"required"`
	// HeightCm is the current stack height in centimeters.
	HeightCm float64 `json:"height_cm" example:"120"`
} // @name AnalyzeRequest

// Validate performs custom validation on the request.
func (r *AnalyzeRequest) Validate() error {
	if len(r.Boxes) == 0 {
		return ErrEmptyBoxes
	}
	return nil
}

// BoxList converts the request boxes to domain types.
func (r *AnalyzeRequest) BoxList() []model.Box {
	boxes := make([]model.Box, len(r.Boxes))
	for i, b := range r.Boxes {
		boxes[i] = b.Box()
	}
	return boxes
}

// StepRequest mutates a session's placed-box set.
//
// @Description Placed-box-set mutation
// @Example {"action": "place"}
// @Example {"action": "seek", "step": 12, "height_cm": 85}
type StepRequest struct {
	// Action is one of place, remove, seek, reset.
	Action string `json:"action" binding:"required" example:"place"`
	// Step is the absolute placement step, consulted for seek only.
	Step int `json:"step,omitempty" example:"12"`
	// HeightCm overrides the derived stack height when positive.
	HeightCm float64 `json:"height_cm,omitempty" example:"85"`
} // @name StepRequest

// Validate performs custom validation on the request.
func (r *StepRequest) Validate() error {
	switch r.Action {
	case "place", "remove", "reset":
		return nil
	case "seek":
		if r.Step < 0 {
			return ErrInvalidStep
		}
		return nil
	default:
		return ErrInvalidAction
	}
}

// SelectPalletRequest switches a session's active pallet.
//
// @Description Active pallet selection
type SelectPalletRequest struct {
	// Pallet is the zero-based pallet index within the order.
	Pallet int `json:"pallet" example:"0"`
} // @name SelectPalletRequest

// Validate performs custom validation on the request.
func (r *SelectPalletRequest) Validate() error {
	if r.Pallet < 0 {
		return ErrInvalidPalletIndex
	}
	return nil
}

// SafetyLimitRequest adjusts the stability safety limit at runtime.
// Either a named profile or a custom centimeter limit must be given;
// custom limits are clamped to the supported range.
//
// @Description Safety limit selection
// @Example {"profile": "conservative"}
// @Example {"limit_cm": 25}
type SafetyLimitRequest struct {
	Profile string  `json:"profile,omitempty" example:"standard"`
	LimitCm float64 `json:"limit_cm,omitempty" example:"25"`
} // @name SafetyLimitRequest

// Validate performs custom validation on the request.
func (r *SafetyLimitRequest) Validate() error {
	if r.Profile == "" && r.LimitCm <= 0 {
		return ErrInvalidSafetyLimit
	}
	if r.Profile != "" {
		switch r.Profile {
		case "conservative", "standard", "liberal":
		default:
			return &ValidationError{Field: "profile", Message: "must be one of conservative, standard, liberal"}
		}
	}
	return nil
}

// TokenRequest exchanges an API key for a bearer token.
//
// @Description Token issue request
type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
} // @name TokenRequest
