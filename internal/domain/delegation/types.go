// Package delegation implements scoped, time-bounded grants
// that let a delegate act with a subset of a delegator's permissions,
// validated for containment, acyclicity, and expiry, and merged additively
// with direct policy evaluation (never overriding a direct Deny).
package delegation

import "time"

// State is a delegation's lifecycle stage. Active is the only non-terminal
// state; Revoked and Expired are absorbing.
type State string

const (
	Active  State = "active"
	Revoked State = "revoked"
	Expired State = "expired"
)

// Scope bounds what a delegation grants: the Cartesian product of its
// resource and action glob patterns, optionally restricted to a domain.
type Scope struct {
	Resources []string
	Actions   []string
	Domain    string
}

// Matches reports whether resourceID and action both satisfy at least one
// pattern in their respective lists.
func (s Scope) Matches(resourceID, action string) bool {
	return matchesAny(s.Resources, resourceID) && matchesAny(s.Actions, action)
}

func matchesAny(patterns []string, value string) bool {
	for _, p := range patterns {
		if globMatch(p, value) {
			return true
		}
	}
	return false
}

// Delegation is a grant from Delegator to Delegate, bounded by Scope and
// an optional expiry. Values are immutable; lifecycle transitions (revoke,
// expiry) are expressed by replacing Status, never by mutation in place.
type Delegation struct {
	ID           string
	DelegatorID  string
	DelegateID   string
	Scope        Scope
	CreatedAt    time.Time
	ExpiresAt    *time.Time
	IsTransitive bool
	Status       State
	Metadata     map[string]string
}

// IsExpired reports whether the delegation's expiry has passed as of now
// (expiry is inclusive: expires_at <= now counts as expired).
func (d Delegation) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && !d.ExpiresAt.After(now)
}

// IsActive reports whether the delegation is currently usable: its status
// is Active and it has not expired.
func (d Delegation) IsActive(now time.Time) bool {
	return d.Status == Active && !d.IsExpired(now)
}

// CanTransit reports whether this delegation may be chained onward by its
// delegate (used by the validator's cycle-detection BFS).
func (d Delegation) CanTransit() bool {
	return d.IsTransitive
}
