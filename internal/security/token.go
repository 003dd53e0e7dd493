package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"innsync-backend/internal/domain"
)

// ActorClaims is the JWT payload issued by the identity service. The stay
// core only consumes tokens, it never mints session tokens for end users;
// Generate exists for tests and service-to-service calls.
type ActorClaims struct {
	UserID   int32    `json:"user_id"`
	TenantID int32    `json:"tenant_id"`
	HotelIDs []int32  `json:"hotel_ids"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Actor converts the claims into a domain actor.
func (c *ActorClaims) Actor() domain.Actor {
	return domain.Actor{
		ID:       c.UserID,
		TenantID: c.TenantID,
		HotelIDs: c.HotelIDs,
		Roles:    c.Roles,
	}
}

// AllowsHotel reports whether the token grants access to the hotel. An empty
// hotel list means tenant-wide access.
func (c *ActorClaims) AllowsHotel(hotelID int32) bool {
	if len(c.HotelIDs) == 0 {
		return true
	}
	for _, id := range c.HotelIDs {
		if id == hotelID {
			return true
		}
	}
	return false
}

// TokenManager validates and generates bearer tokens
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a token manager with the given signing secret
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate creates a signed token for the given actor, valid for the given duration
func (m *TokenManager) Generate(actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &ActorClaims{
		UserID:   actor.ID,
		TenantID: actor.TenantID,
		HotelIDs: actor.HotelIDs,
		Roles:    actor.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string and returns its claims
func (m *TokenManager) Validate(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
