package mocks

import (
	"context"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/stretchr/testify/mock"
)

type RecipeRepoMock struct {
	mock.Mock
}

func (m *RecipeRepoMock) Create(ctx context.Context, rec *models.Recipe, item *models.QueueItem) error {
	args := m.Called(ctx, rec, item)
	return args.Error(0)
}

func (m *RecipeRepoMock) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *RecipeRepoMock) SetImagePrompt(ctx context.Context, id uint, prompt string) error {
	args := m.Called(ctx, id, prompt)
	return args.Error(0)
}

func (m *RecipeRepoMock) GroupExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *RecipeRepoMock) QueueItemFor(ctx context.Context, recipeID uint) (*models.QueueItem, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QueueItem), args.Error(1)
}

func (m *RecipeRepoMock) ApplyExtraction(ctx context.Context, recipeID uint, patch dto.RecipeExtractionPatch) error {
	args := m.Called(ctx, recipeID, patch)
	return args.Error(0)
}
