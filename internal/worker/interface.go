package worker

import (
	"context"
	"errors"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"gorm.io/datatypes"
)

// ErrNotProcessing is returned by QueueRepoInterface write-backs when the row
// is no longer in the processing state, e.g. its lease was reclaimed.
var ErrNotProcessing = errors.New("queue item is not processing")

// QueueRepoInterface defines the queue table operations the consumer needs.
type QueueRepoInterface interface {
	ListEligible(ctx context.Context, limit, maxAttempts int) ([]models.QueueItem, error)
	Claim(ctx context.Context, id uint, leaseUntil time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id uint, metadata datatypes.JSON, at time.Time) error
	RecordFailure(ctx context.Context, id uint, f dto.QueueFailure) error
	ReleaseExpiredLeases(ctx context.Context, now time.Time) (int64, error)
	Release(ctx context.Context, id uint) error
}

// RecipePatcherInterface writes extraction output onto a recipe.
type RecipePatcherInterface interface {
	ApplyExtraction(ctx context.Context, recipeID uint, patch dto.RecipeExtractionPatch) error
}

// ExtractorInterface calls the external extraction service.
type ExtractorInterface interface {
	Extract(ctx context.Context, req extraction.Request) (*extraction.Result, error)
}
