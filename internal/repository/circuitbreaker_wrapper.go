// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"github.com/loadsight/pallet-analysis/internal/circuitbreaker"
)

// SnapshotsRepositoryWithCircuitBreaker wraps SnapshotsRepository with circuit breaker protection.
type SnapshotsRepositoryWithCircuitBreaker struct {
	repo           *SnapshotsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSnapshotsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSnapshotsRepositoryWithCircuitBreaker(repo *SnapshotsRepository, cb *circuitbreaker.CircuitBreaker) *SnapshotsRepositoryWithCircuitBreaker {
	return &SnapshotsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create persists a snapshot with circuit breaker protection.
// If circuit is open, silently fails (history is non-critical).
func (r *SnapshotsRepositoryWithCircuitBreaker) Create(ctx context.Context, doc *SnapshotDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, doc)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - silently fail (history is non-critical)
		return nil
	}
	return err
}

// ListBySession returns the snapshot history with circuit breaker protection.
func (r *SnapshotsRepositoryWithCircuitBreaker) ListBySession(ctx context.Context, sessionID string, limit int) ([]SnapshotDocument, error) {
	var result []SnapshotDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.ListBySession(ctx, sessionID, limit)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - return empty history
		return nil, nil
	}
	return result, err
}

// LatestBySession returns the most recent snapshot with circuit breaker protection.
func (r *SnapshotsRepositoryWithCircuitBreaker) LatestBySession(ctx context.Context, sessionID string) (*SnapshotDocument, error) {
	var result *SnapshotDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.LatestBySession(ctx, sessionID)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, nil
	}
	return result, err
}

// DeleteBySession removes a session's history with circuit breaker protection.
func (r *SnapshotsRepositoryWithCircuitBreaker) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.DeleteBySession(ctx, sessionID)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SnapshotsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           *LogsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo *LogsRepository, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - silently fail (logging is non-critical)
		return nil
	}
	return err
}

// CreateMany stores multiple log entries with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - silently fail (logging is non-critical)
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	var result []*LogEntryDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
