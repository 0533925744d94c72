// Package auth resolves the acting user's identity from bearer tokens.
// There is deliberately no authorization enforcement here: the lifecycle
// engine requires an explicit actor id on every mutation, and this package
// only supplies it.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fixora/helpdesk/internal/config"
	"github.com/fixora/helpdesk/internal/domain"
)

// ErrInvalidToken is returned for unparsable or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// ActorClaims carry the acting user's identity.
type ActorClaims struct {
	UserID int64           `json:"uid"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and parses actor tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a manager from configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.ActorTokenTTL(),
	}
}

// Issue creates a signed actor token for a user.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*ActorClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
