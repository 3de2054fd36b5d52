package worker

import (
	"context"
	"fmt"

	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"gorm.io/datatypes"
)

// handleExtraction calls the extraction service for item and writes the
// generated image prompt onto the recipe. Extracted fields are only written
// when the output holds usable recipe data; a result without it is still a
// successful attempt.
func (c *Consumer) handleExtraction(ctx context.Context, item models.QueueItem) (datatypes.JSON, error) {
	res, err := c.extractor.Extract(ctx, extraction.Request{
		ImageURL:   item.ImageURL,
		RecipeName: item.RecipeName,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	if !res.HasRecipeData() {
		c.log.Info("queue.item.no_recipe_data", "item_id", item.ID, "recipe_id", item.RecipeID)
	}
	if err := c.recipes.ApplyExtraction(ctx, item.RecipeID, patchFromResult(res)); err != nil {
		return nil, fmt.Errorf("apply extraction to recipe %d: %w", item.RecipeID, err)
	}

	if len(res.AgentMetadata) == 0 {
		return nil, nil
	}
	return datatypes.JSON(res.AgentMetadata), nil
}

// patchFromResult drops the extracted recipe name on purpose.
func patchFromResult(res *extraction.Result) dto.RecipeExtractionPatch {
	prompt := res.GeneratedPrompt
	patch := dto.RecipeExtractionPatch{ImagePrompt: &prompt}
	if res.HasRecipeData() {
		patch.Ingredients = res.Ingredients
		patch.Instructions = res.Instructions
		patch.RawOCRText = res.RawText
		patch.ConfidenceScore = res.ConfidenceScore
	}
	return patch
}
