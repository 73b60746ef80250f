package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/macrosnap/backend/internal/service"
)

// AuthHandler exchanges gateway credentials for service tokens
type AuthHandler struct {
	authService service.IAuthService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token handles the credential exchange
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.IssueToken(req.ClientID, req.ClientSecret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid client credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
