package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/remotedeck/jobboard-api/internal/apperror"
	domain "github.com/remotedeck/jobboard-api/internal/user"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	const query = `INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.New(apperror.Conflict, "email already registered")
		}
		return fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), true)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), false)
}

// scanUser maps sql.ErrNoRows either to a NotFound error (lookups by id) or
// to (nil, nil) (existence probes by email).
func (r *Repository) scanUser(row *sql.Row, notFoundErr bool) (*domain.User, error) {
	u := &domain.User{}
	var createdStr string

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdStr)
	if err == sql.ErrNoRows {
		if notFoundErr {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return u, nil
}

func (r *Repository) AddJob(ctx context.Context, userID, jobID string, rel domain.Relation) error {
	const query = `INSERT OR IGNORE INTO user_jobs (user_id, job_id, relation) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, jobID, string(rel)); err != nil {
		return fmt.Errorf("add %s job: %w", rel, err)
	}
	return nil
}

func (r *Repository) RemoveJob(ctx context.Context, userID, jobID string, rel domain.Relation) error {
	const query = `DELETE FROM user_jobs WHERE user_id = ? AND job_id = ? AND relation = ?`

	if _, err := r.db.ExecContext(ctx, query, userID, jobID, string(rel)); err != nil {
		return fmt.Errorf("remove %s job: %w", rel, err)
	}
	return nil
}

func (r *Repository) JobIDs(ctx context.Context, userID string, rel domain.Relation) ([]string, error) {
	const query = `SELECT job_id FROM user_jobs
		WHERE user_id = ? AND relation = ?
		ORDER BY created_at ASC, job_id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, string(rel))
	if err != nil {
		return nil, fmt.Errorf("list %s jobs: %w", rel, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
