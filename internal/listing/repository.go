package listing

import (
	"context"
	"time"
)

type Repository interface {
	// UpsertJobs writes each job keyed by id, inserting new records and
	// replacing existing ones. Records already in storage but absent from
	// jobs are left untouched.
	UpsertJobs(ctx context.Context, jobs []Job) (int64, error)
	// ListJobs returns all jobs ordered by publication date, newest first.
	// Jobs with a missing date sort last.
	ListJobs(ctx context.Context) ([]Job, error)
	// LastRefresh returns the refresh marker instant. A missing marker or an
	// unparseable stored value both yield the zero time with no error.
	LastRefresh(ctx context.Context) (time.Time, error)
	SetLastRefresh(ctx context.Context, t time.Time) error
}
