package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/macrosnap/backend/config"
)

// nutritionPrompt instructs the model to answer with a bare JSON object the
// parser understands, or {"error": "..."} when the image shows no food.
const nutritionPrompt = `You are a nutrition expert analyzing a food image.

Carefully examine the image and provide detailed nutritional information for the food shown.

IMPORTANT: You must respond with ONLY a valid JSON object, no additional text or markdown formatting.

If the image clearly shows food, return a JSON object with this exact structure:
{
  "food_name": "name of the dish or food item",
  "calories": 0,
  "protein_g": 0,
  "carbs_g": 0,
  "fats_g": 0,
  "fiber_g": 0,
  "serving_size": "description of the portion size (e.g., '1 plate', '200g', '1 serving')",
  "confidence": "high or medium or low"
}

If the image does NOT show food, is unclear, or you cannot identify the food, return:
{
  "error": "Brief explanation of why you cannot analyze this image"
}

Guidelines:
- Base estimates on visible portion size
- Consider cooking methods and ingredients visible
- For mixed dishes, estimate total nutrition
- Round calories to the nearest 10, other values to 1 decimal place

Remember: Return ONLY the JSON object, nothing else.`

// VisionService calls an OpenAI-compatible chat-completions endpoint with
// the photo attached and returns the model's raw answer. Parsing is the
// parser package's job; this service makes no assumptions about the answer
// beyond it being text.
type VisionService struct {
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

// Ensure VisionService implements IVisionClient
var _ IVisionClient = (*VisionService)(nil)

// NewVisionService creates a new VisionService instance
func NewVisionService(cfg *config.Config) *VisionService {
	return &VisionService{
		apiKey:    cfg.VisionAPIKey,
		apiURL:    cfg.VisionAPIURL,
		model:     cfg.VisionModel,
		maxTokens: cfg.VisionMaxTokens,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type visionImageURL struct {
	URL string `json:"url"`
}

type visionContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string          `json:"role"`
	Content []visionContent `json:"content"`
}

type visionRequest struct {
	Model       string          `json:"model"`
	Messages    []visionMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

// AnalyzeFoodImage sends the image to the vision model and returns the raw
// answer text. Transport failures are retried a bounded number of times;
// whatever the model says is returned untouched.
func (s *VisionService) AnalyzeFoodImage(ctx context.Context, image []byte) (string, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		answer, err := s.analyzeAttempt(ctx, image)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		log.Printf("[VisionService] Attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt == maxRetries {
			break
		}
		backoff := time.NewTimer(time.Duration(attempt) * time.Second)
		select {
		case <-ctx.Done():
			backoff.Stop()
			return "", fmt.Errorf("%w: %v", ErrVision, ctx.Err())
		case <-backoff.C:
		}
	}
	return "", fmt.Errorf("%w: %v", ErrVision, lastErr)
}

func (s *VisionService) analyzeAttempt(ctx context.Context, image []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)

	reqBody := visionRequest{
		Model: s.model,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContent{
					{Type: "text", Text: nutritionPrompt},
					{
						Type:     "image_url",
						ImageURL: &visionImageURL{URL: "data:image/jpeg;base64," + encoded},
					},
				},
			},
		},
		MaxTokens: s.maxTokens,
		// Low temperature for consistent estimates
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}
