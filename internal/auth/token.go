package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"leavechat/internal/domain"
	"leavechat/internal/domain/models"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// Claims are the signed contents of a leavechat bearer token.
type Claims struct {
	UserID   string      `json:"user_id"` // employee id
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies first-party HS256 tokens. There is no
// external identity provider; the login endpoint is the only issuer.
type TokenManager struct {
	secret []byte
	logger *slog.Logger
}

// NewTokenManager creates a TokenManager with the given signing secret.
func NewTokenManager(secret string, logger *slog.Logger) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		logger: logger,
	}
}

// Issue signs a token for the given user, valid for TokenTTL.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:   user.EmployeeID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify validates a bearer token and extracts its claims.
// Returns domain.ErrUnauthorized for any invalid, expired, or
// wrongly signed token.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks - allow only HS256
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		m.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		m.logger.Debug("token has incomplete claims", "username", claims.Username)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
