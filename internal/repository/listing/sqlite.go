package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/remotedeck/jobboard-api/internal/listing"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) UpsertJobs(ctx context.Context, jobs []domain.Job) (int64, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	const batchSize = 200
	var total int64

	for i := 0; i < len(jobs); i += batchSize {
		end := min(i+batchSize, len(jobs))
		batch := jobs[i:end]

		placeholders := make([]string, len(batch))
		args := make([]any, 0, len(batch)*12)
		for j, job := range batch {
			placeholders[j] = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
			tags, err := json.Marshal(job.Tags)
			if err != nil {
				return total, fmt.Errorf("marshal tags for job %s: %w", job.ID, err)
			}
			args = append(args,
				job.ID, job.URL, job.Title, job.CompanyName, job.CompanyLogo,
				job.Category, string(tags), job.JobType,
				formatDate(job.PublicationDate),
				job.CandidateRequiredLocation, job.Salary, job.Description,
			)
		}

		query := fmt.Sprintf(`INSERT INTO jobs
			(id, url, title, company_name, company_logo, category, tags, job_type,
			 publication_date, candidate_required_location, salary, description)
			VALUES %s
			ON CONFLICT(id) DO UPDATE SET
			 url = excluded.url,
			 title = excluded.title,
			 company_name = excluded.company_name,
			 company_logo = excluded.company_logo,
			 category = excluded.category,
			 tags = excluded.tags,
			 job_type = excluded.job_type,
			 publication_date = excluded.publication_date,
			 candidate_required_location = excluded.candidate_required_location,
			 salary = excluded.salary,
			 description = excluded.description,
			 updated_at = strftime('%%Y-%%m-%%dT%%H:%%M:%%SZ', 'now')`,
			strings.Join(placeholders, ", "),
		)

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("upsert jobs: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	return total, nil
}

func (r *Repository) ListJobs(ctx context.Context) ([]domain.Job, error) {
	// Empty publication dates sort after any real timestamp under DESC
	// string ordering, which keeps undated jobs last.
	const query = `SELECT id, url, title, company_name, company_logo, category,
		tags, job_type, publication_date, candidate_required_location,
		salary, description, created_at, updated_at
		FROM jobs
		ORDER BY publication_date DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		var tags, pubStr, createdStr, updatedStr string
		if err := rows.Scan(
			&j.ID, &j.URL, &j.Title, &j.CompanyName, &j.CompanyLogo, &j.Category,
			&tags, &j.JobType, &pubStr, &j.CandidateRequiredLocation,
			&j.Salary, &j.Description, &createdStr, &updatedStr,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &j.Tags); err != nil || j.Tags == nil {
			j.Tags = []string{}
		}
		j.PublicationDate, _ = time.Parse(time.RFC3339, pubStr)
		j.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

func (r *Repository) LastRefresh(ctx context.Context) (time.Time, error) {
	const query = `SELECT refreshed_at FROM refresh_marker WHERE id = 1`

	var s string
	err := r.db.QueryRowContext(ctx, query).Scan(&s)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read refresh marker: %w", err)
	}

	// An unparseable stored value means "never refreshed", not an error.
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

func (r *Repository) SetLastRefresh(ctx context.Context, t time.Time) error {
	const query = `INSERT INTO refresh_marker (id, refreshed_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET refreshed_at = excluded.refreshed_at`

	if _, err := r.db.ExecContext(ctx, query, t.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set refresh marker: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
