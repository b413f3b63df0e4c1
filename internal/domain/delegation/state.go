package delegation

import "time"

// WithStatus returns a copy of d transitioned to status. Active is the
// only non-terminal state; transitioning out of Revoked or Expired is the
// caller's mistake to avoid, not something this type enforces (the store
// is the authority on lifecycle writes).
func (d Delegation) WithStatus(status State) Delegation {
	d.Status = status
	return d
}

// Observe lazily applies the Active → Expired transition for reads: it
// returns d unchanged if still Active and unexpired, or a copy with
// Status == Expired once its expiry has passed. Revoked is absorbing and
// is never overwritten here.
func (d Delegation) Observe(now time.Time) Delegation {
	if d.Status == Active && d.IsExpired(now) {
		return d.WithStatus(Expired)
	}
	return d
}
