package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/macrosnap/backend/internal/api"
	"github.com/macrosnap/backend/internal/models"
	"github.com/macrosnap/backend/internal/router"
	"github.com/macrosnap/backend/internal/service"
	"github.com/macrosnap/backend/internal/testhelpers"
)

const visionAnswer = `{
	"food_name": "Chicken Curry",
	"calories": 650,
	"protein_g": 32,
	"carbs_g": 55,
	"fats_g": 30,
	"fiber_g": 5,
	"serving_size": "1 plate",
	"confidence": "medium"
}`

type fakeVision struct {
	answer string
	err    error
}

func (f *fakeVision) AnalyzeFoodImage(_ context.Context, _ []byte) (string, error) {
	return f.answer, f.err
}

type failingStore struct{}

func (failingStore) Append(context.Context, *models.NutritionRecord) (uuid.UUID, error) {
	return uuid.Nil, service.ErrStorage
}
func (failingStore) Query(context.Context, string, time.Time, time.Time) ([]models.NutritionRecord, error) {
	return nil, service.ErrStorage
}
func (failingStore) QueryAll(context.Context, string) ([]models.NutritionRecord, error) {
	return nil, service.ErrStorage
}
func (failingStore) Recent(context.Context, string, int, int) ([]models.NutritionRecord, error) {
	return nil, service.ErrStorage
}

type testEnv struct {
	engine *gin.Engine
	store  service.IHistoryStore
	token  string
	vision *fakeVision
}

func setupEnv(t *testing.T, store service.IHistoryStore) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if store == nil {
		store = service.NewHistoryService(testhelpers.SetupTestDB(t))
	}
	summaries := service.NewSummaryService(store, nil)
	vision := &fakeVision{answer: visionAnswer}

	hash, err := bcrypt.GenerateFromPassword([]byte("gateway-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuthService("test-jwt-secret", "telegram-gateway", string(hash))

	db := testhelpers.SetupTestDB(t)
	engine := router.SetupRouter(
		db,
		api.NewAuthHandler(auth),
		api.NewMealHandler(vision, nil, store, summaries),
		api.NewSummaryHandler(summaries),
		auth,
		nil,
	)

	token, err := auth.IssueToken("telegram-gateway", "gateway-secret")
	require.NoError(t, err)

	return &testEnv{engine: engine, store: store, token: token, vision: vision}
}

func (e *testEnv) do(t *testing.T, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func photoForm(t *testing.T, userID, username string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("user_id", userID))
	if username != "" {
		require.NoError(t, writer.WriteField("username", username))
	}
	part, err := writer.CreateFormFile("photo", "meal.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestTokenEndpoint(t *testing.T) {
	env := setupEnv(t, nil)

	body, err := json.Marshal(api.TokenRequest{ClientID: "telegram-gateway", ClientSecret: "gateway-secret"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestTokenEndpointBadCredentials(t *testing.T) {
	env := setupEnv(t, nil)

	body, _ := json.Marshal(api.TokenRequest{ClientID: "telegram-gateway", ClientSecret: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	env := setupEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary/stats?user_id=tg:42", nil)
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyzeMeal(t *testing.T) {
	env := setupEnv(t, nil)

	body, contentType := photoForm(t, "tg:42", "alice")
	w := env.do(t, http.MethodPost, "/api/v1/meals", body, contentType)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Saved)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "Chicken Curry", resp.Record.FoodName)
	assert.Equal(t, 650.0, resp.Record.Calories)
	assert.Equal(t, "tg:42", resp.Record.UserID)

	// And it actually landed in the store.
	records, err := env.store.QueryAll(context.Background(), "tg:42")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Chicken Curry", records[0].FoodName)
}

func TestAnalyzeMealUnparseableAnswer(t *testing.T) {
	env := setupEnv(t, nil)
	env.vision.answer = `{"error":"that is a photo of a cat"}`

	body, contentType := photoForm(t, "tg:42", "")
	w := env.do(t, http.MethodPost, "/api/v1/meals", body, contentType)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "photo of a cat")
}

func TestAnalyzeMealNegativeMacroRejected(t *testing.T) {
	env := setupEnv(t, nil)
	env.vision.answer = `{"food_name":"Glitch","calories":-100,"protein_g":1,"carbs_g":1,"fats_g":1}`

	body, contentType := photoForm(t, "tg:42", "")
	w := env.do(t, http.MethodPost, "/api/v1/meals", body, contentType)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalyzeMealVisionDown(t *testing.T) {
	env := setupEnv(t, nil)
	env.vision.answer = ""
	env.vision.err = service.ErrVision

	body, contentType := photoForm(t, "tg:42", "")
	w := env.do(t, http.MethodPost, "/api/v1/meals", body, contentType)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAnalyzeMealMissingUserID(t *testing.T) {
	env := setupEnv(t, nil)

	body, contentType := photoForm(t, "", "")
	w := env.do(t, http.MethodPost, "/api/v1/meals", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeMealStorageDownStillAnswers(t *testing.T) {
	env := setupEnv(t, failingStore{})

	body, contentType := photoForm(t, "tg:42", "")
	w := env.do(t, http.MethodPost, "/api/v1/meals", body, contentType)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Saved)
	assert.Equal(t, "Chicken Curry", resp.Record.FoodName)
}

func TestHistoryEndpoint(t *testing.T) {
	env := setupEnv(t, nil)
	now := time.Now().UTC()
	for i, food := range []string{"Breakfast", "Lunch"} {
		_, err := env.store.Append(context.Background(), &models.NutritionRecord{
			UserID:    "tg:42",
			FoodName:  food,
			Calories:  300,
			CreatedAt: now.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/v1/meals?user_id=tg:42&days=1", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Lunch", resp.Meals[0].FoodName) // newest first
}

func TestHistoryEndpointStorageDown(t *testing.T) {
	env := setupEnv(t, failingStore{})

	w := env.do(t, http.MethodGet, "/api/v1/meals?user_id=tg:42", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSummaryToday(t *testing.T) {
	env := setupEnv(t, nil)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, calories := range []float64{300, 500, 350} {
		_, err := env.store.Append(context.Background(), &models.NutritionRecord{
			UserID:    "tg:42",
			FoodName:  "Meal",
			Calories:  calories,
			CreatedAt: day.Add(10 * time.Hour),
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/v1/summary/today?user_id=tg:42&date=2024-01-15", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.MealCount)
	assert.Equal(t, 1150.0, resp.TotalCalories)
}

func TestSummaryTodayEmpty(t *testing.T) {
	env := setupEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/v1/summary/today?user_id=tg:7&date=2024-01-15", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.MealCount)
}

func TestSummaryWeek(t *testing.T) {
	env := setupEnv(t, nil)
	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, calories := range []float64{100, 200} {
		_, err := env.store.Append(context.Background(), &models.NutritionRecord{
			UserID:    "tg:42",
			FoodName:  "Toast",
			Calories:  calories,
			CreatedAt: monday.Add(9 * time.Hour),
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/v1/summary/week?user_id=tg:42&week_start=2024-01-15", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.WeeklyStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalAnalyses)
	assert.Equal(t, 150.0, resp.AvgCalories)
}

func TestSummaryStats(t *testing.T) {
	env := setupEnv(t, nil)
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, food := range []string{"Chicken", "Chicken", "Rice"} {
		_, err := env.store.Append(context.Background(), &models.NutritionRecord{
			UserID:    "tg:42",
			FoodName:  food,
			Calories:  400,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	w := env.do(t, http.MethodGet, "/api/v1/summary/stats?user_id=tg:42", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AllTimeStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalAnalyses)
	require.NotEmpty(t, resp.TopFoods)
	assert.Equal(t, "Chicken", resp.TopFoods[0].FoodName)
	assert.Equal(t, 2, resp.TopFoods[0].Count)
}
