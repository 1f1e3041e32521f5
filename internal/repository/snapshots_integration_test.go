//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Use shared container with unique database name
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewSnapshotsRepository(db)

	t.Run("create fills defaults", func(t *testing.T) {
		doc := &SnapshotDocument{
			SessionID:   "defaults-session",
			OrderID:     117,
			PlacedBoxes: 1,
		}

		err := repo.Create(ctx, doc)
		require.NoError(t, err)
		assert.False(t, doc.ID.IsZero())
		assert.False(t, doc.CreatedAt.IsZero())
	})

	t.Run("list returns newest first", func(t *testing.T) {
		base := time.Now().Truncate(time.Millisecond)
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Create(ctx, &SnapshotDocument{
				SessionID:   "ordering-session",
				OrderID:     42,
				PlacedBoxes: i,
				CreatedAt:   base.Add(time.Duration(i) * time.Second),
			}))
		}

		docs, err := repo.ListBySession(ctx, "ordering-session", 0)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, 2, docs[0].PlacedBoxes)
		assert.Equal(t, 0, docs[2].PlacedBoxes)
	})

	t.Run("list respects limit", func(t *testing.T) {
		docs, err := repo.ListBySession(ctx, "ordering-session", 2)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("latest returns most recent", func(t *testing.T) {
		latest, err := repo.LatestBySession(ctx, "ordering-session")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 2, latest.PlacedBoxes)
	})

	t.Run("latest returns nil for unknown session", func(t *testing.T) {
		latest, err := repo.LatestBySession(ctx, "no-such-session")
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("snapshot metrics round trip", func(t *testing.T) {
		doc := &SnapshotDocument{
			SessionID: "metrics-session",
			OrderID:   7,
			Snapshot: model.MetricsSnapshot{
				BoxCount: 2,
				HeightCm: 20,
				Stability: model.StabilityResult{
					Value:  87.5,
					Rating: model.RatingExcellent,
				},
			},
		}
		require.NoError(t, repo.Create(ctx, doc))

		latest, err := repo.LatestBySession(ctx, "metrics-session")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 2, latest.Snapshot.BoxCount)
		assert.InDelta(t, 87.5, latest.Snapshot.Stability.Value, 0.001)
		assert.Equal(t, model.RatingExcellent, latest.Snapshot.Stability.Rating)
	})

	t.Run("delete removes full history", func(t *testing.T) {
		deleted, err := repo.DeleteBySession(ctx, "ordering-session")
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		docs, err := repo.ListBySession(ctx, "ordering-session", 0)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
