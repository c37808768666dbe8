package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/config"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/permissions"
)

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Name          string   `json:"name"`
	SalesPersonID string   `json:"sales_person_id,omitempty"`
	Privileges    []string `json:"privileges,omitempty"`
}

// Actor converts the claims into the acting user. Unknown privileges are dropped.
func (c *Claims) Actor() *actor.Actor {
	name := c.Name
	if name == "" {
		name = c.Subject
	}
	var privileges []string
	for _, p := range c.Privileges {
		if permissions.IsValidPermission(p) {
			privileges = append(privileges, p)
		}
	}
	return &actor.Actor{
		ID:            c.Subject,
		Name:          name,
		SalesPersonID: c.SalesPersonID,
		Privileges:    privileges,
	}
}

// Manager handles JWT operations
type Manager struct {
	config *config.JWTConfig
}

// NewManager creates a new JWT manager
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

// Issue signs an access token for a. Used by tooling and tests; logins are
// handled by the identity provider in front of this service.
func (m *Manager) Issue(a *actor.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   a.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Name:          a.Name,
		SalesPersonID: a.SalesPersonID,
		Privileges:    a.Privileges,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Secret))
}

// Validate validates an access token and returns the claims
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.TokenInvalid()
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.TokenExpired()
		}
		return nil, errors.TokenInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.TokenInvalid()
	}

	return claims, nil
}
