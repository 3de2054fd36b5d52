package models

import (
	"time"

	"gorm.io/datatypes"
)

// QueueItem is one recipe image awaiting extraction. Rows are never deleted.
type QueueItem struct {
	ID             uint           `gorm:"primaryKey;autoIncrement"`
	RecipeID       uint           `gorm:"not null;index"`
	ImageURL       string         `gorm:"type:text;not null"`
	RecipeName     *string        `gorm:"type:varchar(255)"`
	Status         string         `gorm:"type:varchar(20);not null;default:'pending';index:idx_queue_status_created,priority:1"`
	Attempts       int            `gorm:"not null;default:0"`
	ErrorMessage   *string        `gorm:"type:text"`
	AgentMetadata  datatypes.JSON `gorm:"type:jsonb"`
	LeaseExpiresAt *time.Time
	ProcessedAt    *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_queue_status_created,priority:2"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (QueueItem) TableName() string { return "recipe_image_queue" }
