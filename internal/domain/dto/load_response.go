package dto

import (
	"time"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
)

// PalletSummary describes one pallet of a parsed load.
type PalletSummary struct {
	Index     int                 `json:"index"`
	ID        int                 `json:"id"`
	LengthMM  float64             `json:"length_mm"`
	WidthMM   float64             `json:"width_mm"`
	HeightMM  float64             `json:"height_mm"`
	Weight    float64             `json:"weight"`
	TotalLoad float64             `json:"total_load"`
	Volume    model.VolumeMetrics `json:"volume"`
	BoxCount  int                 `json:"box_count"`
}

// LoadResponse describes a load session and its parsed order.
type LoadResponse struct {
	SessionID    string          `json:"session_id"`
	OrderID      int             `json:"order_id"`
	PalletCount  int             `json:"pallet_count"`
	ActivePallet int             `json:"active_pallet"`
	PlacedBoxes  int             `json:"placed_boxes"`
	Pallets      []PalletSummary `json:"pallets"`
	Colors       map[int]string  `json:"colors"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PalletDetail describes one pallet including its box list.
type PalletDetail struct {
	PalletSummary
	Boxes []model.Box `json:"boxes"`
}

// StepResponse is returned by placement mutations: the new placement
// position plus the recomputed metrics.
type StepResponse struct {
	SessionID    string                `json:"session_id"`
	ActivePallet int                   `json:"active_pallet"`
	PlacedBoxes  int                   `json:"placed_boxes"`
	Metrics      model.MetricsSnapshot `json:"metrics"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SafetyLimitResponse reports the effective center-of-mass safety limit.
type SafetyLimitResponse struct {
	Profile string  `json:"profile,omitempty"`
	LimitCm float64 `json:"limit_cm"`
}

// NewPalletSummary builds a PalletSummary from a model pallet.
func NewPalletSummary(index int, p *model.Pallet) PalletSummary {
	return PalletSummary{
		Index:     index,
		ID:        p.ID,
		LengthMM:  p.LengthMM,
		WidthMM:   p.WidthMM,
		HeightMM:  p.HeightMM,
		Weight:    p.Weight,
		TotalLoad: p.TotalLoad,
		Volume:    p.Volume,
		BoxCount:  len(p.Boxes),
	}
}
