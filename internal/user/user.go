package user

import "time"

// Relation names a per-user membership set of job ids.
type Relation string

const (
	RelationSeen    Relation = "seen"
	RelationSaved   Relation = "saved"
	RelationApplied Relation = "applied"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// JobSets holds the three membership sets for one user. Job ids are weak
// references: a refresh cycle may remove the job they point at.
type JobSets struct {
	SeenJobs    []string `json:"seenJobs"`
	SavedJobs   []string `json:"savedJobs"`
	AppliedJobs []string `json:"appliedJobs"`
}
