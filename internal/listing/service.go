package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/remotedeck/jobboard-api/internal/feed"
)

const (
	defaultRefreshInterval = 6 * time.Hour
	defaultCacheTTL        = 5 * time.Minute
)

type Service struct {
	repo            Repository
	feed            feed.Feed
	refreshInterval time.Duration
	cache           *listCache

	// Concurrent refresh attempts share a single in-flight cycle.
	group singleflight.Group
}

func NewService(repo Repository, f feed.Feed, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		feed:            f,
		refreshInterval: defaultRefreshInterval,
		cache:           newListCache(defaultCacheTTL),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Service)

// WithRefreshInterval sets the minimum age of the refresh marker before a
// non-forced refresh contacts the feed again.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) { s.refreshInterval = d }
}

// WithCacheTTL sets the advisory listing cache TTL. Zero or negative
// disables the cache.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) { s.cache = newListCache(d) }
}

// LastRefresh returns the instant of the last successful refresh, or the
// zero time when no refresh has happened yet. Storage read failures degrade
// to "never refreshed" so the next Refresh call retries rather than failing.
func (s *Service) LastRefresh(ctx context.Context) time.Time {
	t, err := s.repo.LastRefresh(ctx)
	if err != nil {
		slog.Error("read refresh marker", "error", err)
		return time.Time{}
	}
	return t
}

// LastUpdate returns the refresh marker, creating an initial one when none
// exists yet.
func (s *Service) LastUpdate(ctx context.Context) (time.Time, error) {
	if t := s.LastRefresh(ctx); !t.IsZero() {
		return t, nil
	}
	now := time.Now().UTC()
	if err := s.repo.SetLastRefresh(ctx, now); err != nil {
		return time.Time{}, fmt.Errorf("create initial refresh marker: %w", err)
	}
	return now, nil
}

// Refresh runs one fetch-normalize-reconcile cycle unless the marker is
// fresher than the refresh interval (and force is false). Concurrent callers
// share the result of a single in-flight cycle.
func (s *Service) Refresh(ctx context.Context, force bool) (*RefreshResult, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh(ctx, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RefreshResult), nil
}

func (s *Service) refresh(ctx context.Context, force bool) (*RefreshResult, error) {
	last := s.LastRefresh(ctx)
	now := time.Now().UTC()

	if !force && !last.IsZero() && now.Sub(last) < s.refreshInterval {
		slog.Info("skipping refresh", "lastRefresh", last)
		return &RefreshResult{Skipped: true, Refreshed: last}, nil
	}

	listings, err := s.feed.Fetch(ctx)
	if err != nil {
		// Marker stays put so the next request retries naturally.
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	if len(listings) == 0 {
		slog.Warn("feed returned no listings", "feed", s.feed.Source())
	}

	jobs := make([]Job, 0, len(listings))
	for _, l := range listings {
		jobs = append(jobs, Normalize(l))
	}

	n, err := s.repo.UpsertJobs(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("reconcile jobs: %w", err)
	}

	if err := s.repo.SetLastRefresh(ctx, now); err != nil {
		return nil, fmt.Errorf("advance refresh marker: %w", err)
	}
	s.cache.invalidate()

	slog.Info("refreshed job listings",
		"feed", s.feed.Source(),
		"fetched", len(listings),
		"written", n,
	)

	return &RefreshResult{JobCount: len(jobs), Refreshed: now}, nil
}

// List returns all jobs, newest first, through the advisory cache. Empty
// storage triggers a single non-forced refresh before re-reading; a failed
// fallback refresh degrades to the empty listing instead of failing the read.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	if jobs, ok := s.cache.get(); ok {
		return jobs, nil
	}

	jobs, err := s.repo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	if len(jobs) == 0 {
		if _, err := s.Refresh(ctx, false); err != nil {
			slog.Error("refresh on empty storage", "error", err)
			return jobs, nil
		}
		jobs, err = s.repo.ListJobs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list jobs after refresh: %w", err)
		}
	}

	s.cache.set(jobs)
	return jobs, nil
}
