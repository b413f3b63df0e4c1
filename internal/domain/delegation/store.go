package delegation

import (
	"context"
	"time"
)

// Store is the external delegation persistence capability.
// Implementations must retain revoked/expired records until Sweep purges
// them, since they remain relevant for audit.
type Store interface {
	Create(ctx context.Context, d Delegation) error
	Revoke(ctx context.Context, id string) error
	FindActiveForDelegate(ctx context.Context, delegateID string, now time.Time) ([]Delegation, error)
	// FindOutgoingTransitive returns the active, transitive delegations
	// whose DelegatorID is subjectID — the validator's cycle-detection BFS
	// walks this edge (delegate → delegations that subject has further
	// delegated onward).
	FindOutgoingTransitive(ctx context.Context, subjectID string, now time.Time) ([]Delegation, error)
	// Sweep purges terminal (Revoked/Expired) records older than
	// retention, for callers enforcing a retention policy.
	Sweep(ctx context.Context, retention time.Duration, now time.Time) (purged int, err error)
}
