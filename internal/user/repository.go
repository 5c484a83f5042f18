package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	// GetByEmail returns (nil, nil) when no account has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// AddJob inserts jobID into the relation set; adding an already-present
	// id is a no-op.
	AddJob(ctx context.Context, userID, jobID string, rel Relation) error
	// RemoveJob deletes jobID from the relation set; absent ids are a no-op.
	RemoveJob(ctx context.Context, userID, jobID string, rel Relation) error
	// JobIDs lists the relation set in insertion order.
	JobIDs(ctx context.Context, userID string, rel Relation) ([]string, error)
}
