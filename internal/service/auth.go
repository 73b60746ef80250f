package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/macrosnap/backend/internal/types"
)

// tokenTTL is how long an issued gateway token stays valid.
const tokenTTL = 24 * time.Hour

// AuthService authenticates chat gateways. A gateway holds a client id and
// secret; the secret is only ever stored bcrypt-hashed. Successful
// authentication yields a signed JWT the gateway presents on every request.
type AuthService struct {
	jwtSecret        string
	clientID         string
	clientSecretHash string
}

// Ensure AuthService implements IAuthService
var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates a new AuthService instance
func NewAuthService(jwtSecret, clientID, clientSecretHash string) *AuthService {
	return &AuthService{
		jwtSecret:        jwtSecret,
		clientID:         clientID,
		clientSecretHash: clientSecretHash,
	}
}

// IssueToken exchanges gateway credentials for a signed JWT
func (s *AuthService) IssueToken(clientID, clientSecret string) (string, error) {
	if clientID != s.clientID {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.clientSecretHash), []byte(clientSecret)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		ClientID: clientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a gateway token
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*types.TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
