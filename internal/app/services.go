// Package app provides service initialization.
package app

import (
	"github.com/loadsight/pallet-analysis/config"
	"github.com/loadsight/pallet-analysis/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Sessions  service.SessionManager
	Stability service.StabilityCalculator
	Tokens    service.TokenService
}

// InitializeServices initializes the calculators, the session manager and
// the token service from configuration.
func InitializeServices(cfg config.Config, dbComponents *DatabaseComponents) *ServiceComponents {
	gridOpts := []service.WeightGridOption{}
	if cfg.Engine.GridRows > 0 && cfg.Engine.GridCols > 0 {
		gridOpts = append(gridOpts, service.WithGridResolution(cfg.Engine.GridRows, cfg.Engine.GridCols))
	}

	footprint := service.Footprint{}
	if cfg.Engine.PalletLengthMM > 0 && cfg.Engine.PalletWidthMM > 0 {
		footprint = service.FootprintFromMillimeters(cfg.Engine.PalletLengthMM, cfg.Engine.PalletWidthMM)
		gridOpts = append(gridOpts, service.WithFootprint(footprint))
	}

	grid := service.NewWeightGridService(gridOpts...)

	stabilityOpts := []service.StabilityOption{
		service.WithSafetyProfile(service.SafetyProfile(cfg.Engine.SafetyProfile)),
	}
	if cfg.Engine.SafetyLimitCm > 0 {
		stabilityOpts = append(stabilityOpts, service.WithSafetyLimitCm(cfg.Engine.SafetyLimitCm))
	}
	stability := service.NewStabilityService(stabilityOpts...)

	volumeOpts := []service.VolumeOption{}
	if footprint != (service.Footprint{}) {
		volumeOpts = append(volumeOpts, service.WithVolumeFootprint(footprint))
	}
	volume := service.NewVolumeService(volumeOpts...)

	sessionOpts := []service.SessionOption{
		service.WithSessionTTL(cfg.Sessions.Capacity, cfg.Sessions.TTL),
		service.WithWeightGrid(grid),
		service.WithStability(stability),
		service.WithVolume(volume),
	}
	if dbComponents != nil && dbComponents.SnapshotsRepo != nil {
		sessionOpts = append(sessionOpts, service.WithSnapshotHistory(dbComponents.SnapshotsRepo))
	}

	sessions := service.NewSessionService(sessionOpts...)

	var tokens service.TokenService
	if cfg.Auth.Enabled {
		tokens = service.NewTokenService(service.TokenConfig{
			SecretKey:    cfg.Auth.JWTSecretKey,
			TTL:          cfg.Auth.AccessTokenTTL,
			APIKeys:      cfg.Auth.APIKeys,
			APIKeyHashes: cfg.Auth.APIKeyHashes,
		})
	}

	return &ServiceComponents{
		Sessions:  sessions,
		Stability: stability,
		Tokens:    tokens,
	}
}
