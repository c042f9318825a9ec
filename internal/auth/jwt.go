package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pitchside/quote-api/internal/config"
	"github.com/pitchside/quote-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the token payload for console sessions
type Claims struct {
	DisplayName string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	TeamID      string   `json:"team"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HMAC-signed bearer tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTLDuration(),
	}
}

// IssueToken creates a signed token for the given user
func (m *TokenManager) IssueToken(user *domain.User) (string, error) {
	now := time.Now().UTC()

	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)

	claims := Claims{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Roles:       roles,
		TeamID:      string(user.TeamID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a token string and returns user context
func (m *TokenManager) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	roles := make([]domain.UserRoleType, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, domain.UserRoleType(r))
	}

	return &UserContext{
		UserID:      claims.Subject,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Roles:       roles,
		TeamID:      domain.TeamID(claims.TeamID),
	}, nil
}
