// Package jobstore is the client-side listing store: one in-process source
// of truth for the fetched job set and the user's seen/saved/applied sets,
// with filtering and pagination derived locally instead of re-querying the
// backend on every interaction.
package jobstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/remotedeck/jobboard-api/internal/listing"
	"github.com/remotedeck/jobboard-api/internal/user"
)

// Status filters the visible job set against the membership sets.
type Status string

const (
	StatusAll     Status = "all"
	StatusNew     Status = "new"
	StatusSeen    Status = "seen"
	StatusApplied Status = "applied"
	StatusSaved   Status = "saved"
)

// PageSize is how many additional jobs each RevealMore exposes.
const PageSize = 10

// Backend is the REST surface the store syncs against.
type Backend interface {
	UpdateJobs(ctx context.Context) error
	Jobs(ctx context.Context) ([]listing.Job, error)
	UserJobs(ctx context.Context) (*user.JobSets, error)
	MarkSeen(ctx context.Context, jobID string) error
	SaveJob(ctx context.Context, jobID string) error
	RemoveSaved(ctx context.Context, jobID string) error
	MarkApplied(ctx context.Context, jobID string) error
}

// Store holds the job set, filter parameters, and membership sets. The
// filtered view is re-derived synchronously on every mutation; the reveal
// counter resets to one page whenever a filter changes.
type Store struct {
	backend Backend

	mu       sync.Mutex
	jobs     []listing.Job
	filtered []listing.Job

	query    string
	category string
	location string
	status   Status

	seen    map[string]bool
	saved   map[string]bool
	applied map[string]bool

	selected *listing.Job
	reveal   int
}

func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		status:  StatusAll,
		seen:    make(map[string]bool),
		saved:   make(map[string]bool),
		applied: make(map[string]bool),
		reveal:  PageSize,
	}
}

// Load asks the backend to refresh its listings, then pulls the job set and
// the user's membership sets and derives the initial filtered view.
func (s *Store) Load(ctx context.Context) error {
	// Refresh failures are not fatal for browsing: stale listings still
	// render. The fetch and membership reads are.
	if err := s.backend.UpdateJobs(ctx); err != nil {
		slog.Warn("backend refresh failed, loading stale listings", "error", err)
	}

	jobs, err := s.backend.Jobs(ctx)
	if err != nil {
		return fmt.Errorf("fetch jobs: %w", err)
	}
	sets, err := s.backend.UserJobs(ctx)
	if err != nil {
		return fmt.Errorf("fetch user jobs: %w", err)
	}

	s.mu.Lock()
	s.jobs = jobs
	s.seen = toSet(sets.SeenJobs)
	s.saved = toSet(sets.SavedJobs)
	s.applied = toSet(sets.AppliedJobs)
	s.selected = nil
	s.applyFiltersLocked()
	var first *listing.Job
	if len(s.filtered) > 0 {
		j := s.filtered[0]
		first = &j
	}
	s.mu.Unlock()

	// Auto-select the newest job so the detail pane is never empty. A failed
	// mark-seen call keeps the selection but leaves the seen set alone.
	if first != nil {
		if err := s.SelectJob(ctx, *first); err != nil {
			slog.Warn("mark selected job seen", "jobId", first.ID, "error", err)
		}
	}
	return nil
}

// SetQuery sets the free-text filter and re-derives the view.
func (s *Store) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query == q {
		return
	}
	s.query = q
	s.applyFiltersLocked()
}

// SetCategory sets the category-equality filter; empty clears it.
func (s *Store) SetCategory(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.category == c {
		return
	}
	s.category = c
	s.applyFiltersLocked()
}

// SetLocation sets the location-membership filter; empty clears it.
func (s *Store) SetLocation(l string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == l {
		return
	}
	s.location = l
	s.applyFiltersLocked()
}

// SetStatus sets the five-way status filter.
func (s *Store) SetStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == st {
		return
	}
	s.status = st
	s.applyFiltersLocked()
}

// ApplyFilters re-derives the filtered view from the current parameters.
// Mutating methods call it implicitly; it is exported for callers that
// mutate the underlying membership sets through other stores.
func (s *Store) ApplyFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyFiltersLocked()
}

func (s *Store) applyFiltersLocked() {
	query := strings.ToLower(s.query)

	filtered := make([]listing.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if s.matchesStatus(j.ID) && matchesQuery(j, query) &&
			s.matchesCategory(j) && s.matchesLocation(j) {
			filtered = append(filtered, j)
		}
	}

	// Newest first; jobs with a missing date sort as oldest.
	sort.SliceStable(filtered, func(a, b int) bool {
		return filtered[a].PublicationDate.After(filtered[b].PublicationDate)
	})

	s.filtered = filtered
	s.reveal = PageSize
}

func (s *Store) matchesStatus(id string) bool {
	switch s.status {
	case StatusNew:
		return !s.seen[id]
	case StatusSeen:
		return s.seen[id]
	case StatusApplied:
		return s.applied[id]
	case StatusSaved:
		return s.saved[id]
	default:
		return true
	}
}

// matchesQuery is a case-insensitive substring match against title, company
// name, job type, salary (when specified), and tags.
func matchesQuery(j listing.Job, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(j.Title), query) ||
		strings.Contains(strings.ToLower(j.CompanyName), query) ||
		strings.Contains(strings.ToLower(j.JobType), query) {
		return true
	}
	if j.Salary != listing.DefaultSalary && strings.Contains(strings.ToLower(j.Salary), query) {
		return true
	}
	for _, tag := range j.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (s *Store) matchesCategory(j listing.Job) bool {
	return s.category == "" || j.Category == s.category
}

func (s *Store) matchesLocation(j listing.Job) bool {
	if s.location == "" {
		return true
	}
	for _, loc := range splitLocations(j.CandidateRequiredLocation) {
		if loc == s.location {
			return true
		}
	}
	return false
}

// Filtered returns the full filtered view, newest first.
func (s *Store) Filtered() []listing.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]listing.Job(nil), s.filtered...)
}

// Visible returns the filtered view truncated to the reveal counter.
func (s *Store) Visible() []listing.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(s.reveal, len(s.filtered))
	return append([]listing.Job(nil), s.filtered[:n]...)
}

// RevealMore exposes one more page, capped at the filtered-set length. At
// the cap it has no effect.
func (s *Store) RevealMore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reveal >= len(s.filtered) {
		return
	}
	s.reveal = min(s.reveal+PageSize, len(s.filtered))
}

// Selected returns the currently selected job, or nil.
func (s *Store) Selected() *listing.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectJob selects a job and marks it seen exactly once. The local seen set
// is only updated when the backend call succeeds, so local and remote state
// cannot drift apart.
func (s *Store) SelectJob(ctx context.Context, j listing.Job) error {
	s.mu.Lock()
	job := j
	s.selected = &job
	alreadySeen := s.seen[j.ID]
	s.mu.Unlock()

	if alreadySeen {
		return nil
	}

	if err := s.backend.MarkSeen(ctx, j.ID); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}

	s.mu.Lock()
	s.seen[j.ID] = true
	s.applyFiltersLocked()
	s.mu.Unlock()
	return nil
}

// ToggleSave flips the job's saved membership, issuing the matching backend
// call first. A failed call leaves local state untouched.
func (s *Store) ToggleSave(ctx context.Context, jobID string) error {
	s.mu.Lock()
	saved := s.saved[jobID]
	s.mu.Unlock()

	if saved {
		if err := s.backend.RemoveSaved(ctx, jobID); err != nil {
			return fmt.Errorf("unsave job: %w", err)
		}
	} else {
		if err := s.backend.SaveJob(ctx, jobID); err != nil {
			return fmt.Errorf("save job: %w", err)
		}
	}

	s.mu.Lock()
	if saved {
		delete(s.saved, jobID)
	} else {
		s.saved[jobID] = true
	}
	s.applyFiltersLocked()
	s.mu.Unlock()
	return nil
}

// MarkApplied records an application once; repeat calls are local no-ops
// and issue no network call.
func (s *Store) MarkApplied(ctx context.Context, jobID string) error {
	s.mu.Lock()
	applied := s.applied[jobID]
	s.mu.Unlock()

	if applied {
		return nil
	}

	if err := s.backend.MarkApplied(ctx, jobID); err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}

	s.mu.Lock()
	s.applied[jobID] = true
	s.applyFiltersLocked()
	s.mu.Unlock()
	return nil
}

// IsSeen reports local seen membership.
func (s *Store) IsSeen(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[jobID]
}

// IsSaved reports local saved membership.
func (s *Store) IsSaved(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[jobID]
}

// IsApplied reports local applied membership.
func (s *Store) IsApplied(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[jobID]
}

// CategoryOptions returns the sorted distinct categories across the job set.
func (s *Store) CategoryOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]bool)
	for _, j := range s.jobs {
		if j.Category != "" {
			set[j.Category] = true
		}
	}
	return sortedKeys(set)
}

// LocationOptions returns the sorted distinct locations across the job set,
// with comma-separated location strings split into individual entries.
func (s *Store) LocationOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]bool)
	for _, j := range s.jobs {
		for _, loc := range splitLocations(j.CandidateRequiredLocation) {
			set[loc] = true
		}
	}
	return sortedKeys(set)
}

func splitLocations(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	locs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			locs = append(locs, trimmed)
		}
	}
	return locs
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
