package dto

import (
	"encoding/json"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/config"
)

// BatchResult reports one queue trigger invocation.
type BatchResult struct {
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
}

type QueueItemResponseDTO struct {
	ID            uint            `json:"id"`
	RecipeID      uint            `json:"recipe_id"`
	ImageURL      string          `json:"image_url"`
	RecipeName    *string         `json:"recipe_name,omitempty"`
	Status        string          `json:"status"`
	Attempts      int             `json:"attempts"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	AgentMetadata json.RawMessage `json:"agent_metadata,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type QueueStatsDTO map[string]int64

// QueueFailure describes the state a queue item moves to after a failed
// attempt.
type QueueFailure struct {
	Attempts     int
	Status       config.QueueStatus
	ErrorMessage string
	ProcessedAt  *time.Time
}
