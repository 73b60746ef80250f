package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a gateway service token
type TokenClaims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
}
