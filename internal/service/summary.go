package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/macrosnap/backend/internal/aggregate"
	"github.com/macrosnap/backend/internal/models"
)

// dailyCacheTTL bounds staleness for cached daily summaries. Appends
// invalidate the key anyway; the TTL covers invalidation failures.
const dailyCacheTTL = 10 * time.Minute

// SummaryService reads date-filtered views from the history store and runs
// the aggregate functions over them. Today's summary is cached in Redis
// because it is by far the most requested view.
type SummaryService struct {
	store IHistoryStore
	redis *redis.Client
}

// Ensure SummaryService implements ISummaryService
var _ ISummaryService = (*SummaryService)(nil)

// NewSummaryService creates a new SummaryService instance. The Redis client
// may be nil, in which case caching is disabled.
func NewSummaryService(store IHistoryStore, redisClient *redis.Client) *SummaryService {
	return &SummaryService{store: store, redis: redisClient}
}

// Daily returns the user's summary for the calendar day containing day.
func (s *SummaryService) Daily(ctx context.Context, userID string, day time.Time) (*models.DailySummary, error) {
	key := dailyCacheKey(userID, day)
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var cached models.DailySummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	dayStart := day.UTC().Truncate(24 * time.Hour)
	records, err := s.store.Query(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	summary := aggregate.Daily(records, dayStart)

	if s.redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, key, data, dailyCacheTTL).Err(); err != nil {
				log.Printf("[SummaryService] Failed to cache daily summary: %v", err)
			}
		}
	}
	return &summary, nil
}

// Weekly returns per-macro averages over [weekStart, weekStart+7d).
func (s *SummaryService) Weekly(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyStats, error) {
	start := weekStart.UTC().Truncate(24 * time.Hour)
	records, err := s.store.Query(ctx, userID, start, start.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	stats := aggregate.Weekly(records, start)
	return &stats, nil
}

// AllTime returns the user's all-time statistics.
func (s *SummaryService) AllTime(ctx context.Context, userID string) (*models.AllTimeStats, error) {
	records, err := s.store.QueryAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := aggregate.AllTime(records)
	return &stats, nil
}

// InvalidateDaily drops the cached summary for the day a record landed on.
// Called after every successful append; failures only shorten cache
// freshness, so they are logged and swallowed.
func (s *SummaryService) InvalidateDaily(ctx context.Context, userID string, day time.Time) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, dailyCacheKey(userID, day)).Err(); err != nil {
		log.Printf("[SummaryService] Failed to invalidate daily summary cache: %v", err)
	}
}

// WeekStart returns the Monday of the week containing now, the default
// window for /summary/week.
func WeekStart(now time.Time) time.Time {
	now = now.UTC().Truncate(24 * time.Hour)
	offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
	return now.AddDate(0, 0, -offset)
}

func dailyCacheKey(userID string, day time.Time) string {
	return fmt.Sprintf("summary:daily:%s:%s", userID, day.UTC().Format("2006-01-02"))
}
