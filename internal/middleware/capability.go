package middleware

import (
	"net/http"
	"os"
)

// CapabilityChecker decides whether a request may use the admin surface.
// Authentication itself lives outside this service; the sync subsystem only
// consumes the capability decision.
type CapabilityChecker interface {
	CanManageVehicles(r *http.Request) bool
}

// EnvTokenChecker grants access when the X-Admin-Token header matches the
// ADMIN_API_TOKEN environment variable. An empty variable denies everything;
// the deployment is expected to inject its real authorizer instead.
type EnvTokenChecker struct{}

func (EnvTokenChecker) CanManageVehicles(r *http.Request) bool {
	token := os.Getenv("ADMIN_API_TOKEN")
	if token == "" {
		return false
	}
	return r.Header.Get("X-Admin-Token") == token
}

// RequireManageVehicles gates admin routes behind the capability check
func RequireManageVehicles(checker CapabilityChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.CanManageVehicles(r) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
