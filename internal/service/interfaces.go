package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/macrosnap/backend/internal/models"
	"github.com/macrosnap/backend/internal/types"
)

// IHistoryStore defines the append-only record store
type IHistoryStore interface {
	Append(ctx context.Context, record *models.NutritionRecord) (uuid.UUID, error)
	Query(ctx context.Context, userID string, from, to time.Time) ([]models.NutritionRecord, error)
	QueryAll(ctx context.Context, userID string) ([]models.NutritionRecord, error)
	Recent(ctx context.Context, userID string, days, limit int) ([]models.NutritionRecord, error)
}

// IVisionClient supplies the raw model answer for a food photo
type IVisionClient interface {
	AnalyzeFoodImage(ctx context.Context, image []byte) (string, error)
}

// IPhotoStore persists the uploaded photo bytes and returns a reference URL
type IPhotoStore interface {
	Store(ctx context.Context, image []byte, contentType string) (string, error)
}

// ISummaryService computes derived summaries from the history store
type ISummaryService interface {
	Daily(ctx context.Context, userID string, day time.Time) (*models.DailySummary, error)
	Weekly(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyStats, error)
	AllTime(ctx context.Context, userID string) (*models.AllTimeStats, error)
	InvalidateDaily(ctx context.Context, userID string, day time.Time)
}

// IAuthService defines gateway authentication operations
type IAuthService interface {
	IssueToken(clientID, clientSecret string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}
