// Package repository provides data access for analysis snapshots.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
)

// SnapshotDocument represents one persisted metrics snapshot. A document
// is written after every recomputation so the placement history of a
// session can be replayed later.
type SnapshotDocument struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	SessionID   string                `bson:"session_id" json:"session_id"`
	OrderID     int                   `bson:"order_id" json:"order_id"`
	PalletIndex int                   `bson:"pallet_index" json:"pallet_index"`
	PlacedBoxes int                   `bson:"placed_boxes" json:"placed_boxes"`
	Snapshot    model.MetricsSnapshot `bson:"snapshot" json:"snapshot"`
	CreatedAt   time.Time             `bson:"created_at" json:"created_at"`
}

// SnapshotsRepository provides methods for snapshot history operations.
type SnapshotsRepository struct {
	collection *mongo.Collection
}

// NewSnapshotsRepository creates a new snapshots repository.
func NewSnapshotsRepository(db *MongoDB) *SnapshotsRepository {
	return &SnapshotsRepository{
		collection: db.Snapshots,
	}
}

// Create persists one snapshot document.
func (r *SnapshotsRepository) Create(ctx context.Context, doc *SnapshotDocument) error {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// ListBySession returns the snapshot history of one session, newest first.
func (r *SnapshotsRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]SnapshotDocument, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []SnapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

// LatestBySession returns the most recent snapshot of one session.
func (r *SnapshotsRepository) LatestBySession(ctx context.Context, sessionID string) (*SnapshotDocument, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})

	var doc SnapshotDocument
	err := r.collection.FindOne(ctx, bson.M{"session_id": sessionID}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil // No snapshot recorded yet
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteBySession removes the full history of one session.
func (r *SnapshotsRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
