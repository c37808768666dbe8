package jwt

import (
	"net/http"
	"strings"

	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// Authenticate validates the bearer token and attaches the actor to the request context
func Authenticate(m *Manager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httputil.Error(w, errors.Unauthorized("invalid authorization header format"))
				return
			}

			claims, err := m.Validate(parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("token validation failed")
				httputil.Error(w, err)
				return
			}

			a := claims.Actor()
			ctx := actor.WithActor(r.Context(), a)
			ctx = httputil.WithUserContext(ctx, a.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
