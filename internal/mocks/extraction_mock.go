package mocks

import (
	"context"
	"io"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/stretchr/testify/mock"
)

type ExtractorMock struct {
	mock.Mock
}

func (m *ExtractorMock) Extract(ctx context.Context, req extraction.Request) (*extraction.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Result), args.Error(1)
}

func (m *ExtractorMock) GeneratePrompt(ctx context.Context, req extraction.PromptRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type ImageStoreMock struct {
	mock.Mock
}

func (m *ImageStoreMock) PutImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.Error(1)
}

type BatchProcessorMock struct {
	mock.Mock
}

func (m *BatchProcessorMock) ProcessBatch(ctx context.Context) (dto.BatchResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.BatchResult), args.Error(1)
}
