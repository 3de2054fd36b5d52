package queue

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
)

// QueueRepoInterface is the read side of the image queue used by operators.
type QueueRepoInterface interface {
	List(ctx context.Context, status string, limit int) ([]models.QueueItem, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// BatchProcessor runs one queue drain. worker.Consumer implements it.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) (dto.BatchResult, error)
}

type QueueServiceInterface interface {
	Trigger(ctx context.Context) (dto.BatchResult, error)
	List(ctx context.Context, status string, limit int) ([]dto.QueueItemResponseDTO, error)
	Stats(ctx context.Context) (dto.QueueStatsDTO, error)
}

type QueueHandlerInterface interface {
	Trigger(c *gin.Context)
	List(c *gin.Context)
	Stats(c *gin.Context)
}
