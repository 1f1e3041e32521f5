// Package repository provides interfaces for repository operations.
package repository

import (
	"context"
)

// SnapshotsRepositoryInterface defines the interface for snapshot history operations.
type SnapshotsRepositoryInterface interface {
	Create(ctx context.Context, doc *SnapshotDocument) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]SnapshotDocument, error)
	LatestBySession(ctx context.Context, sessionID string) (*SnapshotDocument, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
