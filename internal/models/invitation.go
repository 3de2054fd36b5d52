package models

import (
	"time"

	"gorm.io/datatypes"
)

// WaitlistInvitation lets a waitlisted email create an account.
type WaitlistInvitation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
	UsedAt    *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GroupInvitation asks an email to join a cookbook group.
type GroupInvitation struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	GroupID     uint      `gorm:"not null;index"`
	Email       string    `gorm:"type:varchar(255);not null"`
	Token       string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"`
	InvitedBy   string    `gorm:"type:varchar(255)"`
	ExpiresAt   time.Time `gorm:"not null"`
	RespondedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Group Group `gorm:"foreignKey:GroupID"`
}

// PurchaseActivation is issued after a paid purchase and activates an account.
type PurchaseActivation struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Email     string         `gorm:"type:varchar(255);not null;index"`
	Token     string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time      `gorm:"not null"`
	Used      bool           `gorm:"not null;default:false"`
	UsedAt    *time.Time
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}
