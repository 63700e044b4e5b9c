package router

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/shandysiswandi/evoting/internal/pkg/jwt"
)

// HeaderAdminKey carries the operator key for administrative ballot routes.
const HeaderAdminKey = "X-Admin-Key"

// Authenticated requires a valid voter session bearer token and stores its
// claims in the request context (see jwt.GetAuth).
func Authenticated(verifier jwt.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := strings.Fields(r.Header.Get("Authorization"))
			if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(p[1])
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			ctx := jwt.SetAuth(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminKey guards a route with a static operator key. An empty key disables
// the check and returns nil, which Chain skips.
func AdminKey(key string) Middleware {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(r.Header.Get(HeaderAdminKey))
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, errorResponse{Message: "Admin key required"}, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
