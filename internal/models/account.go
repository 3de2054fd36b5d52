package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Group struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"type:varchar(255);not null"`
	OwnerEmail string    `gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type GroupMember struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_member_email,priority:1"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_group_member_email,priority:2"`
	Name      string    `gorm:"type:varchar(255)"`
	Role      string    `gorm:"type:varchar(20);not null;default:'member'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
