package api

import "github.com/macrosnap/backend/internal/models"

// TokenRequest is the gateway credential exchange payload
type TokenRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

// TokenResponse carries the issued gateway token
type TokenResponse struct {
	Token string `json:"token"`
}

// AnalyzeResponse is returned after a photo analysis. Saved reports whether
// the record made it into the history store; the analysis itself is returned
// either way.
type AnalyzeResponse struct {
	Record *models.NutritionRecord `json:"record"`
	Saved  bool                    `json:"saved"`
}

// HistoryResponse lists a user's recent meals, newest first
type HistoryResponse struct {
	Meals []models.NutritionRecord `json:"meals"`
	Count int                      `json:"count"`
}
