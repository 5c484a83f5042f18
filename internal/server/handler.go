package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remotedeck/jobboard-api/internal/apperror"
	"github.com/remotedeck/jobboard-api/internal/auth"
	"github.com/remotedeck/jobboard-api/internal/listing"
	"github.com/remotedeck/jobboard-api/internal/user"
)

type handler struct {
	listingSvc *listing.Service
	userSvc    *user.Service
	authSvc    *auth.Service
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.listingSvc.List(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	if jobs == nil {
		jobs = []listing.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *handler) lastUpdate(w http.ResponseWriter, r *http.Request) {
	t, err := h.listingSvc.LastUpdate(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing.LastUpdateResponse{LastUpdate: t})
}

func (h *handler) updateJobs(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	result, err := h.listingSvc.Refresh(r.Context(), force)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *handler) userJobs(w http.ResponseWriter, r *http.Request) {
	req := user.JobSetsRequest{UserID: r.URL.Query().Get("userId")}
	if appErr := req.Validate(); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	if !authorizedFor(w, r, req.UserID) {
		return
	}

	sets, err := h.userSvc.JobSets(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (h *handler) seeJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, h.userSvc.MarkSeen)
}

func (h *handler) saveJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, h.userSvc.ToggleSave)
}

func (h *handler) deleteSavedJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, h.userSvc.RemoveSaved)
}

func (h *handler) applyJob(w http.ResponseWriter, r *http.Request) {
	h.jobAction(w, r, h.userSvc.MarkApplied)
}

func (h *handler) jobAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, req user.JobActionRequest) ([]string, error),
) {
	var req user.JobActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if appErr := req.Validate(); appErr != nil {
		writeError(w, appErr.HTTPStatus(), appErr.Message())
		return
	}
	if !authorizedFor(w, r, req.UserID) {
		return
	}

	ids, err := action(r.Context(), req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// authorizedFor rejects requests whose bearer token belongs to a different
// user than the one the request is acting on.
func authorizedFor(w http.ResponseWriter, r *http.Request, userID string) bool {
	claims := claimsFrom(r.Context())
	if claims == nil || claims.Subject != userID {
		writeError(w, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (auth.CredentialsRequest, bool) {
	var req auth.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

func writeAppError(w http.ResponseWriter, err error) {
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		writeError(w, ae.HTTPStatus(), ae.Message())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
