package user

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// JobSets returns all three membership sets for a user. The sets are empty
// slices rather than nil so they serialize as [].
func (s *Service) JobSets(ctx context.Context, req JobSetsRequest) (*JobSets, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, req.UserID); err != nil {
		return nil, err
	}

	sets := &JobSets{}
	for _, pair := range []struct {
		rel Relation
		dst *[]string
	}{
		{RelationSeen, &sets.SeenJobs},
		{RelationSaved, &sets.SavedJobs},
		{RelationApplied, &sets.AppliedJobs},
	} {
		ids, err := s.repo.JobIDs(ctx, req.UserID, pair.rel)
		if err != nil {
			return nil, fmt.Errorf("list %s jobs: %w", pair.rel, err)
		}
		if ids == nil {
			ids = []string{}
		}
		*pair.dst = ids
	}
	return sets, nil
}

// MarkSeen adds the job to the user's seen set and returns the updated set.
// Marking an already-seen job changes nothing.
func (s *Service) MarkSeen(ctx context.Context, req JobActionRequest) ([]string, error) {
	return s.addToSet(ctx, req, RelationSeen)
}

// MarkApplied adds the job to the user's applied set and returns the
// updated set.
func (s *Service) MarkApplied(ctx context.Context, req JobActionRequest) ([]string, error) {
	return s.addToSet(ctx, req, RelationApplied)
}

// ToggleSave flips the job's membership in the saved set and returns the
// updated set.
func (s *Service) ToggleSave(ctx context.Context, req JobActionRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ids, err := s.relationSet(ctx, req.UserID, RelationSaved)
	if err != nil {
		return nil, err
	}

	if slices.Contains(ids, req.JobID) {
		if err := s.repo.RemoveJob(ctx, req.UserID, req.JobID, RelationSaved); err != nil {
			return nil, fmt.Errorf("remove saved job: %w", err)
		}
		slog.Info("unsaved job", "userId", req.UserID, "jobId", req.JobID)
	} else {
		if err := s.repo.AddJob(ctx, req.UserID, req.JobID, RelationSaved); err != nil {
			return nil, fmt.Errorf("save job: %w", err)
		}
		slog.Info("saved job", "userId", req.UserID, "jobId", req.JobID)
	}

	return s.setOrEmpty(ctx, req.UserID, RelationSaved)
}

// RemoveSaved deletes the job from the saved set; removing an absent job
// changes nothing. Returns the updated set.
func (s *Service) RemoveSaved(ctx context.Context, req JobActionRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveJob(ctx, req.UserID, req.JobID, RelationSaved); err != nil {
		return nil, fmt.Errorf("remove saved job: %w", err)
	}
	return s.setOrEmpty(ctx, req.UserID, RelationSaved)
}

func (s *Service) addToSet(ctx context.Context, req JobActionRequest, rel Relation) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.AddJob(ctx, req.UserID, req.JobID, rel); err != nil {
		return nil, fmt.Errorf("add %s job: %w", rel, err)
	}
	return s.setOrEmpty(ctx, req.UserID, rel)
}

// relationSet verifies the user exists before reading the set.
func (s *Service) relationSet(ctx context.Context, userID string, rel Relation) ([]string, error) {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.JobIDs(ctx, userID, rel)
}

func (s *Service) setOrEmpty(ctx context.Context, userID string, rel Relation) ([]string, error) {
	ids, err := s.repo.JobIDs(ctx, userID, rel)
	if err != nil {
		return nil, fmt.Errorf("list %s jobs: %w", rel, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
