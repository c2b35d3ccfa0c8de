package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iho/glcore/internal/domain"
)

// ActorAuthenticator resolves the actor named by an Authorization header.
type ActorAuthenticator interface {
	Authenticate(authorization string) (domain.Actor, error)
}

// anonymousActor acts when authentication is disabled.
var anonymousActor = domain.Actor{ID: "anonymous", Role: domain.RoleController}

// AuthMiddleware creates an authentication middleware. With a nil
// authenticator every request acts as an anonymous controller.
func AuthMiddleware(authenticator ActorAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := anonymousActor

			if authenticator != nil {
				var err error
				actor, err = authenticator.Authenticate(r.Header.Get("Authorization"))
				if err != nil {
					writeError(w, http.StatusUnauthorized, err.Error())
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(domain.WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole rejects actors whose role fails allowed, for example
// domain.Role.CanPost.
func RequireRole(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := domain.ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}

			if !allowed(actor.Role) {
				writeError(w, http.StatusForbidden, domain.ErrInsufficientRole.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
