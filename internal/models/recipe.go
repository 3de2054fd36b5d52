package models

import "time"

type Recipe struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"`
	GroupID         uint    `gorm:"not null;index"`
	GuestName       string  `gorm:"type:varchar(255);not null"`
	GuestEmail      *string `gorm:"type:varchar(255)"`
	Name            string  `gorm:"type:varchar(255);not null"`
	Ingredients     *string `gorm:"type:text"`
	Instructions    *string `gorm:"type:text"`
	ImageURL        *string `gorm:"type:text"`
	RawOCRText      *string `gorm:"column:raw_ocr_text;type:text"`
	ConfidenceScore *float64
	ImagePrompt     *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}
