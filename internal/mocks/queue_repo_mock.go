package mocks

import (
	"context"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type QueueRepoMock struct {
	mock.Mock
}

func (m *QueueRepoMock) ListEligible(ctx context.Context, limit, maxAttempts int) ([]models.QueueItem, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QueueItem), args.Error(1)
}

func (m *QueueRepoMock) Claim(ctx context.Context, id uint, leaseUntil time.Time) (bool, error) {
	args := m.Called(ctx, id, leaseUntil)
	return args.Bool(0), args.Error(1)
}

func (m *QueueRepoMock) MarkCompleted(ctx context.Context, id uint, metadata datatypes.JSON, at time.Time) error {
	args := m.Called(ctx, id, metadata, at)
	return args.Error(0)
}

func (m *QueueRepoMock) RecordFailure(ctx context.Context, id uint, f dto.QueueFailure) error {
	args := m.Called(ctx, id, f)
	return args.Error(0)
}

func (m *QueueRepoMock) ReleaseExpiredLeases(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QueueRepoMock) Release(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *QueueRepoMock) List(ctx context.Context, status string, limit int) ([]models.QueueItem, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QueueItem), args.Error(1)
}

func (m *QueueRepoMock) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
