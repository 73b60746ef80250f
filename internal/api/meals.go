package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/macrosnap/backend/internal/models"
	"github.com/macrosnap/backend/internal/parser"
	"github.com/macrosnap/backend/internal/service"
)

// maxPhotoBytes caps uploaded photo size. Chat platforms compress photos
// well below this; anything larger is not a meal photo.
const maxPhotoBytes = 10 << 20

// MealHandler handles photo analysis and meal history requests
type MealHandler struct {
	vision    service.IVisionClient
	photos    service.IPhotoStore
	store     service.IHistoryStore
	summaries service.ISummaryService
}

// NewMealHandler creates a new MealHandler instance. The photo store may be
// nil when S3 is not configured; analyses then proceed without a photo URL.
func NewMealHandler(vision service.IVisionClient, photos service.IPhotoStore, store service.IHistoryStore, summaries service.ISummaryService) *MealHandler {
	return &MealHandler{
		vision:    vision,
		photos:    photos,
		store:     store,
		summaries: summaries,
	}
}

// Analyze handles POST /meals: multipart photo + user identity in, analyzed
// and persisted NutritionRecord out.
func (h *MealHandler) Analyze(c *gin.Context) {
	userID := c.PostForm("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	username := c.PostForm("username")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}

	ctx := c.Request.Context()

	raw, err := h.vision.AnalyzeFoodImage(ctx, image)
	if err != nil {
		log.Printf("[MealHandler] Vision call failed for user %s: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to analyze image"})
		return
	}

	record, err := parser.Parse(raw, userID, username)
	if err != nil {
		if errors.Is(err, parser.ErrParse) || errors.Is(err, parser.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze image"})
		return
	}

	// Photo archiving is best effort; the analysis stands without it.
	if h.photos != nil {
		contentType := fileHeader.Header.Get("Content-Type")
		if url, err := h.photos.Store(ctx, image, contentType); err == nil {
			record.PhotoURL = url
		} else {
			log.Printf("[MealHandler] Failed to store photo for user %s: %v", userID, err)
		}
	}

	saved := true
	if _, err := h.store.Append(ctx, record); err != nil {
		// The user still gets their analysis; it just is not in history.
		log.Printf("[MealHandler] Failed to persist record for user %s: %v", userID, err)
		saved = false
	} else {
		h.summaries.InvalidateDaily(ctx, userID, record.CreatedAt)
	}

	c.JSON(http.StatusCreated, AnalyzeResponse{Record: record, Saved: saved})
}

// History handles GET /meals: the user's recent analyses, newest first.
// The optional days parameter is clamped to 1..30 by the store.
func (h *MealHandler) History(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	days := 1
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a number"})
			return
		}
		days = parsed
	}

	records, err := h.store.Recent(c.Request.Context(), userID, days, 20)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load history"})
		return
	}
	if records == nil {
		records = []models.NutritionRecord{}
	}

	c.JSON(http.StatusOK, HistoryResponse{Meals: records, Count: len(records)})
}
