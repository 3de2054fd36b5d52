package recipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/dto"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/joshu-sajeev/cookbook/internal/models"
	"gorm.io/gorm"
)

// sniffLen is how many leading bytes are read to detect the image type.
const sniffLen = 3072

const defaultPromptTimeout = 60 * time.Second

type RecipeService struct {
	repo    RecipeRepoInterface
	images  ImageStore
	prompts PromptGenerator

	promptTimeout time.Duration
	pending       sync.WaitGroup
	log           *slog.Logger
}

func NewRecipeService(repo RecipeRepoInterface, images ImageStore, prompts PromptGenerator, logger *slog.Logger) *RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{
		repo:          repo,
		images:        images,
		prompts:       prompts,
		promptTimeout: defaultPromptTimeout,
		log:           logger,
	}
}

var _ RecipeServiceInterface = (*RecipeService)(nil)

// Create stores a guest-submitted recipe. A recipe with a photo is enqueued
// for extraction in the same transaction; one without gets an image prompt
// requested in the background.
func (s *RecipeService) Create(ctx context.Context, req *dto.RecipeCreateDTO) (*dto.RecipeResponseDTO, error) {
	ok, err := s.repo.GroupExists(ctx, req.GroupID)
	if err != nil {
		return nil, mapErr(err, "failed to check group")
	}
	if !ok {
		return nil, common.Errf(http.StatusNotFound, "group not found")
	}

	rec := models.Recipe{
		GroupID:      req.GroupID,
		GuestName:    strings.TrimSpace(req.GuestName),
		GuestEmail:   req.GuestEmail,
		Name:         strings.TrimSpace(req.Name),
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}

	var item *models.QueueItem
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" {
		imageURL := strings.TrimSpace(*req.ImageURL)
		rec.ImageURL = &imageURL
		item = &models.QueueItem{
			ImageURL:   imageURL,
			RecipeName: &rec.Name,
			Status:     string(config.QueueStatusPending),
		}
	}

	if err := s.repo.Create(ctx, &rec, item); err != nil {
		return nil, mapErr(err, "failed to create recipe")
	}

	resp := toResponse(&rec)
	if item != nil {
		resp.QueueItemID = &item.ID
		resp.QueueStatus = item.Status
		s.log.Info("recipe.created", "recipe_id", rec.ID, "queue_item_id", item.ID)
	} else {
		s.log.Info("recipe.created", "recipe_id", rec.ID)
		s.requestPrompt(ctx, rec)
	}
	return resp, nil
}

// requestPrompt runs prompt generation detached from the request. Failures are
// only logged; the recipe simply keeps no prompt.
func (s *RecipeService) requestPrompt(ctx context.Context, rec models.Recipe) {
	if s.prompts == nil {
		return
	}

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.promptTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		prompt, err := s.prompts.GeneratePrompt(bg, extraction.PromptRequest{
			RecipeID:     rec.ID,
			Name:         rec.Name,
			Ingredients:  rec.Ingredients,
			Instructions: rec.Instructions,
		})
		if err != nil {
			s.log.Warn("recipe.prompt.error", "recipe_id", rec.ID, "error", err)
			return
		}
		if strings.TrimSpace(prompt) == "" {
			return
		}
		if err := s.repo.SetImagePrompt(bg, rec.ID, prompt); err != nil {
			s.log.Warn("recipe.prompt.save_error", "recipe_id", rec.ID, "error", err)
			return
		}
		s.log.Info("recipe.prompt.saved", "recipe_id", rec.ID)
	}()
}

// Wait blocks until background prompt requests have finished.
func (s *RecipeService) Wait() {
	s.pending.Wait()
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*dto.RecipeResponseDTO, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Errf(http.StatusNotFound, "recipe not found")
		}
		return nil, mapErr(err, "failed to get recipe")
	}

	resp := toResponse(rec)

	item, err := s.repo.QueueItemFor(ctx, id)
	if err != nil {
		return nil, mapErr(err, "failed to get recipe")
	}
	if item != nil {
		resp.QueueItemID = &item.ID
		resp.QueueStatus = item.Status
	}
	return resp, nil
}

// UploadImage sniffs the image type, stores the bytes under a fresh key and
// returns the public URL.
func (s *RecipeService) UploadImage(ctx context.Context, r io.Reader, size int64) (*dto.ImageUploadResponseDTO, error) {
	if size > config.MaxImageBytes {
		return nil, common.Errf(http.StatusRequestEntityTooLarge, "image exceeds %d MiB", config.MaxImageBytes>>20)
	}
	if size <= 0 {
		return nil, common.Errf(http.StatusBadRequest, "image is empty")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, common.Errf(http.StatusBadRequest, "failed to read image")
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !allowedImage(mtype) {
		return nil, common.NewAPIError(http.StatusUnsupportedMediaType, "unsupported image type", map[string]any{
			"provided": mtype.String(),
			"allowed":  config.AllowedImageTypes,
		})
	}

	key := fmt.Sprintf("recipes/%s%s", uuid.NewString(), mtype.Extension())
	body := io.MultiReader(bytes.NewReader(head), r)

	url, err := s.images.PutImage(ctx, key, body, size, mtype.String())
	if err != nil {
		s.log.Error("recipe.image.upload_error", "key", key, "error", err)
		return nil, mapErr(err, "failed to store image")
	}

	s.log.Info("recipe.image.uploaded", "key", key, "bytes", size)
	return &dto.ImageUploadResponseDTO{URL: url, Key: key}, nil
}

func allowedImage(mtype *mimetype.MIME) bool {
	for _, t := range config.AllowedImageTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

func mapErr(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}
	return common.Errf(http.StatusInternalServerError, "%s", msg)
}

func toResponse(rec *models.Recipe) *dto.RecipeResponseDTO {
	return &dto.RecipeResponseDTO{
		ID:              rec.ID,
		GroupID:         rec.GroupID,
		GuestName:       rec.GuestName,
		Name:            rec.Name,
		Ingredients:     rec.Ingredients,
		Instructions:    rec.Instructions,
		ImageURL:        rec.ImageURL,
		RawOCRText:      rec.RawOCRText,
		ConfidenceScore: rec.ConfidenceScore,
		ImagePrompt:     rec.ImagePrompt,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
