package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/joshu-sajeev/cookbook/internal/queue"
	"github.com/joshu-sajeev/cookbook/internal/worker"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QueueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

var (
	_ worker.QueueRepoInterface = (*QueueRepository)(nil)
	_ queue.QueueRepoInterface  = (*QueueRepository)(nil)
)

// Create inserts a new queue item.
func (r *QueueRepository) Create(ctx context.Context, item *models.QueueItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create queue item: %w", err)
	}
	return nil
}

// Get retrieves a single queue item by its ID.
func (r *QueueRepository) Get(ctx context.Context, id uint) (*models.QueueItem, error) {
	var item models.QueueItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("queue item not found: %w", err)
		}
		return nil, fmt.Errorf("get queue item: %w", err)
	}
	return &item, nil
}

// ListEligible returns up to limit pending items that still have attempts
// left, oldest first.
func (r *QueueRepository) ListEligible(ctx context.Context, limit, maxAttempts int) ([]models.QueueItem, error) {
	var items []models.QueueItem
	if err := r.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", string(config.QueueStatusPending), maxAttempts).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list eligible queue items: %w", err)
	}
	return items, nil
}

// Claim flips a pending item to processing and stamps its lease. It reports
// false when the row was no longer pending, so two invocations never both
// own the same item.
func (r *QueueRepository) Claim(ctx context.Context, id uint, leaseUntil time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.QueueItem{}).
		Where("id = ? AND status = ?", id, string(config.QueueStatusPending)).
		Updates(map[string]any{
			"status":           string(config.QueueStatusProcessing),
			"lease_expires_at": leaseUntil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("claim queue item: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkCompleted finishes a processing item.
func (r *QueueRepository) MarkCompleted(ctx context.Context, id uint, metadata datatypes.JSON, at time.Time) error {
	updates := map[string]any{
		"status":           string(config.QueueStatusCompleted),
		"processed_at":     at,
		"lease_expires_at": nil,
	}
	if len(metadata) > 0 {
		updates["agent_metadata"] = metadata
	}

	res := r.db.WithContext(ctx).Model(&models.QueueItem{}).
		Where("id = ? AND status = ?", id, string(config.QueueStatusProcessing)).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("complete queue item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("complete queue item %d: %w", id, worker.ErrNotProcessing)
	}
	return nil
}

// RecordFailure stores the outcome of a failed attempt. processed_at is only
// written when the failure is terminal.
func (r *QueueRepository) RecordFailure(ctx context.Context, id uint, f dto.QueueFailure) error {
	updates := map[string]any{
		"status":           string(f.Status),
		"attempts":         f.Attempts,
		"error_message":    f.ErrorMessage,
		"lease_expires_at": nil,
	}
	if f.ProcessedAt != nil {
		updates["processed_at"] = *f.ProcessedAt
	}

	res := r.db.WithContext(ctx).Model(&models.QueueItem{}).
		Where("id = ? AND status = ?", id, string(config.QueueStatusProcessing)).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("record queue failure: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("record queue failure %d: %w", id, worker.ErrNotProcessing)
	}
	return nil
}

// Release hands a processing item back to pending without counting an
// attempt.
func (r *QueueRepository) Release(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.QueueItem{}).
		Where("id = ? AND status = ?", id, string(config.QueueStatusProcessing)).
		Updates(map[string]any{
			"status":           string(config.QueueStatusPending),
			"lease_expires_at": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("release queue item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("release queue item %d: %w", id, worker.ErrNotProcessing)
	}
	return nil
}

// ReleaseExpiredLeases moves processing items whose lease ran out back to pending.
func (r *QueueRepository) ReleaseExpiredLeases(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.QueueItem{}).
		Where("status = ? AND lease_expires_at < ?", string(config.QueueStatusProcessing), now).
		Updates(map[string]any{
			"status":           string(config.QueueStatusPending),
			"lease_expires_at": nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("release expired leases: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// List returns the newest items first, optionally filtered by status.
func (r *QueueRepository) List(ctx context.Context, status string, limit int) ([]models.QueueItem, error) {
	var items []models.QueueItem
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	return items, nil
}

// CountByStatus returns the number of items in each status.
func (r *QueueRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.QueueItem{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count queue items: %w", err)
	}

	counts := make(map[string]int64, len(config.AllowedQueueStatuses))
	for _, s := range config.AllowedQueueStatuses {
		counts[string(s)] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
