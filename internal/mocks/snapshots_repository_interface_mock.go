// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/loadsight/pallet-analysis/internal/repository"
)

type MockSnapshotsRepositoryInterface struct {
	mock.Mock
}

func (m *MockSnapshotsRepositoryInterface) Create(ctx context.Context, doc *repository.SnapshotDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockSnapshotsRepositoryInterface) ListBySession(ctx context.Context, sessionID string, limit int) ([]repository.SnapshotDocument, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SnapshotDocument), args.Error(1)
}

func (m *MockSnapshotsRepositoryInterface) LatestBySession(ctx context.Context, sessionID string) (*repository.SnapshotDocument, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SnapshotDocument), args.Error(1)
}

func (m *MockSnapshotsRepositoryInterface) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}
