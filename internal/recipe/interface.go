package recipe

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/joshu-sajeev/cookbook/internal/models"
)

type RecipeRepoInterface interface {
	Create(ctx context.Context, rec *models.Recipe, item *models.QueueItem) error
	Get(ctx context.Context, id uint) (*models.Recipe, error)
	SetImagePrompt(ctx context.Context, id uint, prompt string) error
	GroupExists(ctx context.Context, id uint) (bool, error)
	QueueItemFor(ctx context.Context, recipeID uint) (*models.QueueItem, error)
}

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	PutImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// PromptGenerator asks the extraction service for an image prompt for a
// recipe that was submitted without a photo.
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, req extraction.PromptRequest) (string, error)
}

type RecipeServiceInterface interface {
	Create(ctx context.Context, req *dto.RecipeCreateDTO) (*dto.RecipeResponseDTO, error)
	Get(ctx context.Context, id uint) (*dto.RecipeResponseDTO, error)
	UploadImage(ctx context.Context, r io.Reader, size int64) (*dto.ImageUploadResponseDTO, error)
}

type RecipeHandlerInterface interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	UploadImage(c *gin.Context)
}
