package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shifty/shifty-backend/internal/auth/jwt"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/config"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newManager() *jwt.Manager {
	return jwt.NewManager(&config.JWTConfig{Secret: secret, Issuer: "shifty"})
}

func TestManager_IssueAndValidate(t *testing.T) {
	m := newManager()
	in := &actor.Actor{ID: "user-1", Name: "Anna", SalesPersonID: "sp-1", Privileges: []string{"hr"}}

	token, err := m.Issue(in, time.Hour)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "shifty", claims.Issuer)

	out := claims.Actor()
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "Anna", out.Name)
	assert.Equal(t, "sp-1", out.SalesPersonID)
	assert.Equal(t, []string{"hr"}, out.Privileges)
}

func TestClaims_Actor(t *testing.T) {
	claims := &jwt.Claims{Privileges: []string{"hr", "admin", "shiftplanner"}}
	claims.Subject = "user-2"

	a := claims.Actor()
	assert.Equal(t, "user-2", a.Name)
	assert.Equal(t, []string{"hr", "shiftplanner"}, a.Privileges)
}

func TestManager_Validate(t *testing.T) {
	m := newManager()

	expired, err := m.Issue(&actor.Actor{ID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	_, err = m.Validate(expired)
	assert.ErrorIs(t, err, errors.ErrTokenExpired)

	foreign, err := jwt.NewManager(&config.JWTConfig{Secret: "other"}).Issue(&actor.Actor{ID: "user-1"}, time.Hour)
	require.NoError(t, err)
	_, err = m.Validate(foreign)
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)

	noSubject, err := m.Issue(&actor.Actor{}, time.Hour)
	require.NoError(t, err)
	_, err = m.Validate(noSubject)
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)
}

func TestAuthenticate(t *testing.T) {
	var seen *actor.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = actor.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := jwt.Authenticate(newManager(), logger.Nop())(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"valid token", "Bearer " + testutil.SignToken(t, secret, "user-1", "sp-1", "shiftplanner"), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusNoContent {
				require.NotNil(t, seen)
				assert.Equal(t, "sp-1", seen.SalesPersonID)
				assert.Equal(t, []string{"shiftplanner"}, seen.Privileges)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}
