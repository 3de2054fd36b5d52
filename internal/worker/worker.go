// Package worker drains the recipe image queue. Each call to ProcessBatch is
// one externally triggered invocation; nothing here runs in the background.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
)

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCompleted
	outcomeFailed
)

type Consumer struct {
	queue     QueueRepoInterface
	recipes   RecipePatcherInterface
	extractor ExtractorInterface

	lease       time.Duration
	batchSize   int
	maxAttempts int

	now func() time.Time
	log *slog.Logger
}

func NewConsumer(
	queue QueueRepoInterface,
	recipes RecipePatcherInterface,
	extractor ExtractorInterface,
	lease time.Duration,
	logger *slog.Logger,
) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		queue:       queue,
		recipes:     recipes,
		extractor:   extractor,
		lease:       lease,
		batchSize:   config.QueueBatchSize,
		maxAttempts: config.MaxQueueAttempts,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logger,
	}
}

// ProcessBatch handles up to batchSize pending items, oldest first, one at a
// time. Only a failure to select the batch is returned as an error; per-item
// failures are recorded on the item and counted in the result.
func (c *Consumer) ProcessBatch(ctx context.Context) (dto.BatchResult, error) {
	if _, err := c.Sweep(ctx); err != nil {
		c.log.Warn("queue.sweep.error", "error", err)
	}

	items, err := c.queue.ListEligible(ctx, c.batchSize, c.maxAttempts)
	if err != nil {
		return dto.BatchResult{}, fmt.Errorf("select queue items: %w", err)
	}

	res := dto.BatchResult{Total: len(items)}
	if len(items) == 0 {
		res.Message = "no pending items"
		return res, nil
	}

	c.log.Info("queue.batch.start", "items", len(items))

	for _, item := range items {
		if ctx.Err() != nil {
			c.log.Warn("queue.batch.interrupted", "error", ctx.Err(), "remaining_from", item.ID)
			break
		}

		switch c.process(ctx, item) {
		case outcomeCompleted:
			res.Processed++
		case outcomeFailed:
			res.Failed++
		}
	}

	c.log.Info("queue.batch.done", "processed", res.Processed, "failed", res.Failed, "total", res.Total)
	return res, nil
}

// Sweep returns items whose processing lease expired to pending. Attempts are
// left untouched since the interrupted attempt never reported an outcome.
func (c *Consumer) Sweep(ctx context.Context) (int64, error) {
	n, err := c.queue.ReleaseExpiredLeases(ctx, c.now())
	if err != nil {
		return 0, fmt.Errorf("release expired leases: %w", err)
	}
	if n > 0 {
		c.log.Warn("queue.sweep.reclaimed", "items", n)
	}
	return n, nil
}

func (c *Consumer) process(ctx context.Context, item models.QueueItem) outcome {
	log := c.log.With("item_id", item.ID, "recipe_id", item.RecipeID, "attempts", item.Attempts)

	claimed, err := c.queue.Claim(ctx, item.ID, c.now().Add(c.lease))
	if err != nil {
		log.Error("queue.item.claim_error", "error", err)
		return outcomeSkipped
	}
	if !claimed {
		log.Info("queue.item.already_claimed")
		return outcomeSkipped
	}

	// Write-backs must land even if the invocation is cancelled mid-call,
	// otherwise the row waits for its lease to expire.
	writeCtx := context.WithoutCancel(ctx)

	metadata, err := c.handleExtraction(ctx, item)
	if err != nil {
		if ctx.Err() != nil {
			// the caller went away; that is not a service failure
			c.release(writeCtx, log, item, err)
			return outcomeSkipped
		}
		c.fail(writeCtx, log, item, err)
		return outcomeFailed
	}

	if err := c.queue.MarkCompleted(writeCtx, item.ID, metadata, c.now()); err != nil {
		log.Error("queue.item.complete_error", "error", err)
		return outcomeFailed
	}

	log.Info("queue.item.completed")
	return outcomeCompleted
}

func (c *Consumer) fail(ctx context.Context, log *slog.Logger, item models.QueueItem, cause error) {
	f := nextAfterFailure(item.Attempts, c.maxAttempts, cause, c.now())

	if err := c.queue.RecordFailure(ctx, item.ID, f); err != nil {
		log.Error("queue.item.record_failure_error", "error", err, "cause", cause)
		return
	}

	if f.Status == config.QueueStatusFailed {
		log.Error("queue.item.failed", "error", cause, "attempts", f.Attempts)
		return
	}
	log.Warn("queue.item.retry", "error", cause, "attempts", f.Attempts)
}

func (c *Consumer) release(ctx context.Context, log *slog.Logger, item models.QueueItem, cause error) {
	if err := c.queue.Release(ctx, item.ID); err != nil {
		log.Error("queue.item.release_error", "error", err, "cause", cause)
		return
	}
	log.Warn("queue.item.released", "cause", cause)
}

// nextAfterFailure bumps the attempt counter and parks the item as failed once
// it reaches maxAttempts; otherwise the item goes back to pending.
func nextAfterFailure(attempts, maxAttempts int, cause error, now time.Time) dto.QueueFailure {
	f := dto.QueueFailure{
		Attempts:     attempts + 1,
		Status:       config.QueueStatusPending,
		ErrorMessage: cause.Error(),
	}
	if f.Attempts >= maxAttempts {
		f.Status = config.QueueStatusFailed
		f.ProcessedAt = &now
	}
	return f
}
