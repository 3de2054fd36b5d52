package mocks

import (
	"context"
	"io"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/stretchr/testify/mock"
)

type QueueServiceMock struct {
	mock.Mock
}

func (m *QueueServiceMock) Trigger(ctx context.Context) (dto.BatchResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.BatchResult), args.Error(1)
}

func (m *QueueServiceMock) List(ctx context.Context, status string, limit int) ([]dto.QueueItemResponseDTO, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.QueueItemResponseDTO), args.Error(1)
}

func (m *QueueServiceMock) Stats(ctx context.Context) (dto.QueueStatsDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dto.QueueStatsDTO), args.Error(1)
}

type RecipeServiceMock struct {
	mock.Mock
}

func (m *RecipeServiceMock) Create(ctx context.Context, req *dto.RecipeCreateDTO) (*dto.RecipeResponseDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecipeResponseDTO), args.Error(1)
}

func (m *RecipeServiceMock) Get(ctx context.Context, id uint) (*dto.RecipeResponseDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecipeResponseDTO), args.Error(1)
}

func (m *RecipeServiceMock) UploadImage(ctx context.Context, r io.Reader, size int64) (*dto.ImageUploadResponseDTO, error) {
	args := m.Called(ctx, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImageUploadResponseDTO), args.Error(1)
}
