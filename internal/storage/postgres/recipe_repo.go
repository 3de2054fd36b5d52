package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"github.com/joshu-sajeev/cookbook/internal/recipe"
	"github.com/joshu-sajeev/cookbook/internal/worker"
	"gorm.io/gorm"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var (
	_ recipe.RecipeRepoInterface    = (*RecipeRepository)(nil)
	_ worker.RecipePatcherInterface = (*RecipeRepository)(nil)
)

// Create inserts the recipe and, when item is non-nil, its image queue item in
// the same transaction. item.RecipeID is filled in from the new recipe.
func (r *RecipeRepository) Create(ctx context.Context, rec *models.Recipe, item *models.QueueItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		item.RecipeID = rec.ID
		return tx.Create(item).Error
	})
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var rec models.Recipe
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe not found: %w", err)
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &rec, nil
}

// ApplyExtraction writes the non-nil patch fields. The name column is never
// part of the update.
func (r *RecipeRepository) ApplyExtraction(ctx context.Context, recipeID uint, patch dto.RecipeExtractionPatch) error {
	updates := map[string]any{}
	if patch.ImagePrompt != nil {
		updates["image_prompt"] = *patch.ImagePrompt
	}
	if patch.Ingredients != nil {
		updates["ingredients"] = *patch.Ingredients
	}
	if patch.Instructions != nil {
		updates["instructions"] = *patch.Instructions
	}
	if patch.RawOCRText != nil {
		updates["raw_ocr_text"] = *patch.RawOCRText
	}
	if patch.ConfidenceScore != nil {
		updates["confidence_score"] = *patch.ConfidenceScore
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Omit("name").
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("apply extraction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("apply extraction: recipe %d: %w", recipeID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *RecipeRepository) SetImagePrompt(ctx context.Context, id uint, prompt string) error {
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("image_prompt", prompt).Error; err != nil {
		return fmt.Errorf("set image prompt: %w", err)
	}
	return nil
}

func (r *RecipeRepository) GroupExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Group{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check group: %w", err)
	}
	return count > 0, nil
}

// QueueItemFor returns the most recent queue item for a recipe, if any.
func (r *RecipeRepository) QueueItemFor(ctx context.Context, recipeID uint) (*models.QueueItem, error) {
	var item models.QueueItem
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("id DESC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe queue item: %w", err)
	}
	return &item, nil
}
