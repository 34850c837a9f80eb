package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Role     string `json:"role"`
	DriverID string `json:"driver_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses the session tokens the client keeps in local
// storage across reloads.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(p model.Principal) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role:     string(p.Role),
		DriverID: p.DriverID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) Parse(raw string) (model.Principal, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	role := model.Role(claims.Role)
	if role != model.RoleAdmin && role != model.RoleDriver {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{
		Username: claims.Subject,
		Role:     role,
		DriverID: claims.DriverID,
	}, nil
}
