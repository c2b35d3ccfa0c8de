// Package auth issues and verifies the bearer tokens that carry an actor.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/glcore/internal/domain"
)

const issuer = "glcore"

// Claims represents the JWT claims
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the principal the token was issued for.
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{ID: c.UserID, Role: c.Role}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// WithClock replaces the time source.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

// Generate issues a token for a logged-in user.
func (m *JWTManager) Generate(user *domain.User) (string, error) {
	return m.issue(user.ID, user.Email, user.Role)
}

// GenerateForActor issues a token for a service principal with no user
// record, such as a batch job.
func (m *JWTManager) GenerateForActor(actor domain.Actor) (string, error) {
	return m.issue(actor.ID, "", actor.Role)
}

func (m *JWTManager) issue(id, email string, role domain.Role) (string, error) {
	if id == "" || !role.IsValid() {
		return "", fmt.Errorf("%w: token needs an id and a known role", domain.ErrInvalidToken)
	}

	now := m.now()
	claims := Claims{
		UserID: id,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// Authenticate verifies an Authorization header value of the form
// "Bearer <token>" and returns the actor it names.
func (m *JWTManager) Authenticate(authorization string) (domain.Actor, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if authorization == "" {
		return domain.Actor{}, domain.ErrUnauthorized
	}
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return domain.Actor{}, fmt.Errorf("%w: expected a bearer token", domain.ErrInvalidToken)
	}

	claims, err := m.Verify(strings.TrimSpace(token))
	if err != nil {
		return domain.Actor{}, err
	}

	return claims.Actor(), nil
}
