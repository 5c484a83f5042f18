package auth

import (
	"strings"

	"github.com/remotedeck/jobboard-api/internal/apperror"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CredentialsRequest) Validate() *apperror.AppError {
	if r.Email == "" || r.Password == "" {
		return apperror.New(apperror.BadRequest, "email and password are required")
	}
	if !strings.Contains(r.Email, "@") {
		return apperror.New(apperror.BadRequest, "invalid email address")
	}
	return nil
}

// Session is the payload returned on successful register or login.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
