package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrosnap/backend/internal/models"
	"github.com/macrosnap/backend/internal/service"
	"github.com/macrosnap/backend/internal/testdb"
	"github.com/macrosnap/backend/internal/testhelpers"
)

// TestDailySummaryRedisCache covers the cache round-trip against a real
// Redis instance: the first read populates the cache, later reads are served
// from it, and InvalidateDaily drops exactly the key Daily wrote.
func TestDailySummaryRedisCache(t *testing.T) {
	rdb := testdb.SetupTestRedis(t)
	store := service.NewHistoryService(testhelpers.SetupTestDB(t))
	summaries := service.NewSummaryService(store, rdb)
	ctx := context.Background()

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := store.Append(ctx, &models.NutritionRecord{
		UserID:    "tg:42",
		FoodName:  "Oatmeal",
		Calories:  300,
		CreatedAt: day.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	first, err := summaries.Daily(ctx, "tg:42", day)
	require.NoError(t, err)
	assert.Equal(t, 1, first.MealCount)
	assert.Equal(t, 300.0, first.TotalCalories)

	// A record appended without invalidation stays hidden behind the cache.
	_, err = store.Append(ctx, &models.NutritionRecord{
		UserID:    "tg:42",
		FoodName:  "Burrito",
		Calories:  700,
		CreatedAt: day.Add(13 * time.Hour),
	})
	require.NoError(t, err)

	cached, err := summaries.Daily(ctx, "tg:42", day)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.MealCount)
	assert.Equal(t, 300.0, cached.TotalCalories)

	// Invalidation uses the record's timestamp, not midnight; both must map
	// to the same key for the same calendar day.
	summaries.InvalidateDaily(ctx, "tg:42", day.Add(13*time.Hour))

	fresh, err := summaries.Daily(ctx, "tg:42", day)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.MealCount)
	assert.Equal(t, 1000.0, fresh.TotalCalories)
}

// TestDailySummaryCacheIsPerUser ensures one user's cached summary never
// answers another user's query.
func TestDailySummaryCacheIsPerUser(t *testing.T) {
	rdb := testdb.SetupTestRedis(t)
	store := service.NewHistoryService(testhelpers.SetupTestDB(t))
	summaries := service.NewSummaryService(store, rdb)
	ctx := context.Background()

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := store.Append(ctx, &models.NutritionRecord{
		UserID:    "tg:42",
		FoodName:  "Oatmeal",
		Calories:  300,
		CreatedAt: day.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	warm, err := summaries.Daily(ctx, "tg:42", day)
	require.NoError(t, err)
	assert.Equal(t, 1, warm.MealCount)

	other, err := summaries.Daily(ctx, "tg:7", day)
	require.NoError(t, err)
	assert.Equal(t, 0, other.MealCount)
}
