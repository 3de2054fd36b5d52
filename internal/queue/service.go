package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 200
)

type QueueService struct {
	repo      QueueRepoInterface
	processor BatchProcessor
	log       *slog.Logger
}

func NewQueueService(repo QueueRepoInterface, processor BatchProcessor, logger *slog.Logger) *QueueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueService{repo: repo, processor: processor, log: logger}
}

var _ QueueServiceInterface = (*QueueService)(nil)

// Trigger runs one batch. The returned error carries the underlying message
// so the caller can report it verbatim.
func (s *QueueService) Trigger(ctx context.Context) (dto.BatchResult, error) {
	res, err := s.processor.ProcessBatch(ctx)
	if err != nil {
		s.log.Error("queue.trigger.error", "error", err)
		return dto.BatchResult{}, common.Errf(http.StatusInternalServerError, "%s", err.Error())
	}
	return res, nil
}

func (s *QueueService) List(ctx context.Context, status string, limit int) ([]dto.QueueItemResponseDTO, error) {
	if status != "" && !slices.Contains(config.AllowedQueueStatuses, config.QueueStatus(status)) {
		return nil, common.NewAPIError(http.StatusBadRequest, "invalid status", map[string]any{
			"provided": status,
			"allowed":  config.AllowedQueueStatuses,
		})
	}

	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	items, err := s.repo.List(ctx, status, limit)
	if err != nil {
		return nil, repoErr(err, "failed to list queue items")
	}

	out := make([]dto.QueueItemResponseDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out, nil
}

func (s *QueueService) Stats(ctx context.Context) (dto.QueueStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, repoErr(err, "failed to count queue items")
	}
	return dto.QueueStatsDTO(counts), nil
}

func repoErr(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}
	return common.Errf(http.StatusInternalServerError, "%s", msg)
}

func toResponse(item models.QueueItem) dto.QueueItemResponseDTO {
	resp := dto.QueueItemResponseDTO{
		ID:           item.ID,
		RecipeID:     item.RecipeID,
		ImageURL:     item.ImageURL,
		RecipeName:   item.RecipeName,
		Status:       item.Status,
		Attempts:     item.Attempts,
		ErrorMessage: item.ErrorMessage,
		ProcessedAt:  item.ProcessedAt,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if len(item.AgentMetadata) > 0 {
		resp.AgentMetadata = json.RawMessage(item.AgentMetadata)
	}
	return resp
}
