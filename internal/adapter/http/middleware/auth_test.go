package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/auth"
)

func actorEcho(got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = domain.ActorFromContext(r.Context())
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	var got domain.Actor
	rr := httptest.NewRecorder()

	AuthMiddleware(nil)(actorEcho(&got)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.RoleController, got.Role)
}

func TestAuthMiddleware_Token(t *testing.T) {
	jwt := auth.NewJWTManager("secret-key-for-tests", time.Hour)
	token, err := jwt.Generate(&domain.User{ID: "u-1", Email: "a@example.com", Role: domain.RoleAccountant, Active: true})
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		var got domain.Actor
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		AuthMiddleware(jwt)(actorEcho(&got)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u-1", got.ID)
		assert.Equal(t, domain.RoleAccountant, got.Role)
	})

	t.Run("missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		AuthMiddleware(jwt)(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()
		AuthMiddleware(jwt)(http.NotFoundHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRole(t *testing.T) {
	testCases := []struct {
		name    string
		actor   *domain.Actor
		allowed func(domain.Role) bool
		want    int
	}{
		{"no actor", nil, domain.Role.CanPost, http.StatusUnauthorized},
		{"viewer cannot post", &domain.Actor{ID: "v", Role: domain.RoleViewer}, domain.Role.CanPost, http.StatusForbidden},
		{"accountant posts", &domain.Actor{ID: "a", Role: domain.RoleAccountant}, domain.Role.CanPost, http.StatusOK},
		{"accountant cannot manage", &domain.Actor{ID: "a", Role: domain.RoleAccountant}, domain.Role.CanManage, http.StatusForbidden},
		{"controller manages", &domain.Actor{ID: "c", Role: domain.RoleController}, domain.Role.CanManage, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.actor != nil {
				req = req.WithContext(domain.WithActor(req.Context(), *tc.actor))
			}
			rr := httptest.NewRecorder()

			RequireRole(tc.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
