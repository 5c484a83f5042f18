package user

import "github.com/remotedeck/jobboard-api/internal/apperror"

type JobSetsRequest struct {
	UserID string
}

func (r JobSetsRequest) Validate() *apperror.AppError {
	if r.UserID == "" {
		return apperror.New(apperror.BadRequest, "missing userId")
	}
	return nil
}

// JobActionRequest is shared by the see/save/unsave/apply operations.
type JobActionRequest struct {
	UserID string `json:"userId"`
	JobID  string `json:"jobId"`
}

func (r JobActionRequest) Validate() *apperror.AppError {
	if r.UserID == "" || r.JobID == "" {
		return apperror.New(apperror.BadRequest, "missing userId or jobId")
	}
	return nil
}
