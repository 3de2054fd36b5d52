// Package extraction talks to the external OCR / prompt-generation service.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidResponse is returned when the service answers 2xx without a
// generated_prompt.
var ErrInvalidResponse = errors.New("invalid extraction response")

type Request struct {
	ImageURL   string  `json:"image_url"`
	RecipeName *string `json:"recipe_name,omitempty"`
}

type Result struct {
	GeneratedPrompt string          `json:"generated_prompt"`
	RecipeName      *string         `json:"recipe_name,omitempty"`
	Ingredients     *string         `json:"ingredients,omitempty"`
	Instructions    *string         `json:"instructions,omitempty"`
	RawText         *string         `json:"raw_text,omitempty"`
	ConfidenceScore *float64        `json:"confidence_score,omitempty"`
	AgentMetadata   json.RawMessage `json:"agent_metadata,omitempty"`
}

// HasRecipeData reports whether the result is worth writing to the recipe:
// a recipe name plus ingredients or instructions.
func (r *Result) HasRecipeData() bool {
	if r == nil || blank(r.RecipeName) {
		return false
	}
	return !blank(r.Ingredients) || !blank(r.Instructions)
}

type PromptRequest struct {
	RecipeID     uint    `json:"recipe_id"`
	Name         string  `json:"recipe_name"`
	Ingredients  *string `json:"ingredients,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

type promptResponse struct {
	GeneratedPrompt string `json:"generated_prompt"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// Extract runs OCR and field extraction for one recipe image.
func (c *Client) Extract(ctx context.Context, req Request) (*Result, error) {
	var res Result
	if err := c.post(ctx, "/extract", req, &res); err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.GeneratedPrompt) == "" {
		return nil, fmt.Errorf("%w: missing generated_prompt", ErrInvalidResponse)
	}
	return &res, nil
}

// GeneratePrompt asks the service for an illustration prompt for a text-only recipe.
func (c *Client) GeneratePrompt(ctx context.Context, req PromptRequest) (string, error) {
	var res promptResponse
	if err := c.post(ctx, "/generate-prompt", req, &res); err != nil {
		return "", err
	}
	if strings.TrimSpace(res.GeneratedPrompt) == "" {
		return "", fmt.Errorf("%w: missing generated_prompt", ErrInvalidResponse)
	}
	return res.GeneratedPrompt, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("extraction.http.send_error", "req_id", reqID, "path", path, "error", err)
		return fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read extraction response: %w", err)
	}

	c.log.Info("extraction.http.response",
		"req_id", reqID,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
