package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/remotedeck/jobboard-api/internal/apperror"
	"github.com/remotedeck/jobboard-api/internal/user"
)

type Service struct {
	repo   user.Repository
	tokens *TokenManager
}

func NewService(repo user.Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account and returns a session for immediate use.
// A duplicate email is a validation error, not a conflict leak: the message
// matches what the client-facing registration form expects.
func (s *Service) Register(ctx context.Context, req CredentialsRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("look up email: %w", err)
	}
	if existing != nil {
		return nil, apperror.New(apperror.BadRequest, "user already exists, please log in")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	slog.Info("registered user", "userId", u.ID)
	return &Session{Token: token, UserID: u.ID, Email: u.Email}, nil
}

// Login validates credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req CredentialsRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("look up email: %w", err)
	}
	if u == nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid credentials")
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &Session{Token: token, UserID: u.ID, Email: u.Email}, nil
}
