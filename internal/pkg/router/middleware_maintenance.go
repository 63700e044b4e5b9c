package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/evoting/internal/pkg/config"
)

// closeAllRoutes in app.maintenance.endpoints closes every /api route, for
// example once polling has ended.
const closeAllRoutes = "*"

func middlewareMaintenance(cfg config.Config) Middleware {
	closed := make(map[string]struct{})
	if cfg != nil {
		for _, route := range cfg.GetArray("app.maintenance.endpoints") {
			if route = strings.TrimSpace(route); route != "" {
				closed[route] = struct{}{}
			}
		}
	}
	if len(closed) == 0 {
		return nil
	}
	_, all := closed[closeAllRoutes]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			_, blocked := closed[route]
			if blocked || (all && strings.HasPrefix(route, "/api/")) {
				writeJSON(w, errorResponse{Message: "Voting service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
