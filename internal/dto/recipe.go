package dto

import "time"

type RecipeCreateDTO struct {
	GroupID      uint    `json:"group_id" validate:"required,gt=0"`
	GuestName    string  `json:"guest_name" validate:"required,max=255"`
	GuestEmail   *string `json:"guest_email,omitempty" validate:"omitempty,email"`
	Name         string  `json:"name" validate:"required,max=255"`
	Ingredients  *string `json:"ingredients,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type RecipeResponseDTO struct {
	ID              uint      `json:"id"`
	GroupID         uint      `json:"group_id"`
	GuestName       string    `json:"guest_name"`
	Name            string    `json:"name"`
	Ingredients     *string   `json:"ingredients,omitempty"`
	Instructions    *string   `json:"instructions,omitempty"`
	ImageURL        *string   `json:"image_url,omitempty"`
	RawOCRText      *string   `json:"raw_ocr_text,omitempty"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	ImagePrompt     *string   `json:"image_prompt,omitempty"`
	QueueItemID     *uint     `json:"queue_item_id,omitempty"`
	QueueStatus     string    `json:"queue_status,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ImageUploadResponseDTO struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// RecipeExtractionPatch carries the extracted fields written to a recipe.
// There is no Name field; the guest's title is never overwritten.
type RecipeExtractionPatch struct {
	ImagePrompt     *string
	Ingredients     *string
	Instructions    *string
	RawOCRText      *string
	ConfidenceScore *float64
}
