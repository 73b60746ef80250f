package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/macrosnap/backend/internal/models"
)

// HistoryService owns the durable set of NutritionRecords. Records are
// append-only: there is no update or delete path, so writers for different
// users never contend on anything but the table itself.
type HistoryService struct {
	db *gorm.DB
}

// Ensure HistoryService implements IHistoryStore
var _ IHistoryStore = (*HistoryService)(nil)

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Append persists one record and returns its ID. A record with a zero ID is
// assigned one here; an existing ID is kept so callers can correlate.
func (s *HistoryService) Append(ctx context.Context, record *models.NutritionRecord) (uuid.UUID, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return record.ID, nil
}

// Query returns the user's records in [from, to), ascending by creation
// time. An empty range yields an empty slice, not an error.
func (s *HistoryService) Query(ctx context.Context, userID string, from, to time.Time) ([]models.NutritionRecord, error) {
	var records []models.NutritionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return records, nil
}

// QueryAll returns the user's entire history, ascending by creation time.
func (s *HistoryService) QueryAll(ctx context.Context, userID string) ([]models.NutritionRecord, error) {
	var records []models.NutritionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return records, nil
}

// Recent returns the newest records from the last N days, newest first,
// capped at limit. Backs the /meals history listing.
func (s *HistoryService) Recent(ctx context.Context, userID string, days, limit int) ([]models.NutritionRecord, error) {
	if days < 1 {
		days = 1
	} else if days > 30 {
		days = 30
	}
	if limit <= 0 {
		limit = 20
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var records []models.NutritionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return records, nil
}
