package server

import (
	"net/http"

	"github.com/remotedeck/jobboard-api/internal/auth"
	"github.com/remotedeck/jobboard-api/internal/listing"
	"github.com/remotedeck/jobboard-api/internal/user"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(listingSvc *listing.Service, userSvc *user.Service, authSvc *auth.Service, tokens *auth.TokenManager) http.Handler {
	return newMux(listingSvc, userSvc, authSvc, tokens)
}

func newMux(listingSvc *listing.Service, userSvc *user.Service, authSvc *auth.Service, tokens *auth.TokenManager) http.Handler {
	h := &handler{
		listingSvc: listingSvc,
		userSvc:    userSvc,
		authSvc:    authSvc,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)

	mux.HandleFunc("GET /api/v1/jobs", h.listJobs)
	mux.HandleFunc("GET /api/v1/jobs/last-update", h.lastUpdate)
	mux.HandleFunc("GET /api/v1/jobs/update", h.updateJobs)

	mux.HandleFunc("POST /api/v1/auth/register", h.register)
	mux.HandleFunc("POST /api/v1/auth/login", h.login)

	// Membership-set routes act on a specific account and need a token.
	mux.Handle("GET /api/v1/users/jobs", requireAuth(tokens, http.HandlerFunc(h.userJobs)))
	mux.Handle("POST /api/v1/users/see-job", requireAuth(tokens, http.HandlerFunc(h.seeJob)))
	mux.Handle("POST /api/v1/users/save-job", requireAuth(tokens, http.HandlerFunc(h.saveJob)))
	mux.Handle("DELETE /api/v1/users/saved-job", requireAuth(tokens, http.HandlerFunc(h.deleteSavedJob)))
	mux.Handle("POST /api/v1/users/apply-job", requireAuth(tokens, http.HandlerFunc(h.applyJob)))

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
