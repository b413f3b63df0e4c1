package delegation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sentrypolicy/authzcore/internal/apperr"
	"github.com/sentrypolicy/authzcore/internal/domain/clock"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// delegatedPriority is the fixed priority projected delegation rules
// carry: high enough to participate in normal evaluation, never
// special-cased against deny-override.
const delegatedPriority = policy.Priority(50)

// Manager owns the delegation lifecycle: creation (via Validator), revoke,
// active-delegation lookup, and projection into synthetic policy rules.
type Manager struct {
	Store     Store
	Validator Validator
	Clock     clock.Clock
}

func (m Manager) now() time.Time {
	if m.Clock == nil {
		return clock.System{}.Now()
	}
	return m.Clock.Now()
}

// Delegate validates and, on success, persists a new Active delegation.
// The manager never partially persists: a validation failure stores
// nothing.
func (m Manager) Delegate(ctx context.Context, delegator, delegate policy.Subject, scope Scope, expiresAt *time.Time, transitive bool, metadata map[string]string) (Delegation, error) {
	d := Delegation{
		ID:           uuid.NewString(),
		DelegatorID:  delegator.ID,
		DelegateID:   delegate.ID,
		Scope:        scope,
		CreatedAt:    m.now(),
		ExpiresAt:    expiresAt,
		IsTransitive: transitive,
		Status:       Active,
		Metadata:     metadata,
	}
	if err := m.Validator.Validate(ctx, d, delegator); err != nil {
		return Delegation{}, err
	}
	if err := m.Store.Create(ctx, d); err != nil {
		return Delegation{}, apperr.Wrap(apperr.KindStoreError, "persisting delegation", err)
	}
	return d, nil
}

// Revoke transitions a delegation to Revoked. The record is retained by
// the store until a retention sweep purges it.
func (m Manager) Revoke(ctx context.Context, id string) error {
	if err := m.Store.Revoke(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStoreError, "revoking delegation", err)
	}
	return nil
}

// FindActiveDelegations returns delegateID's currently active delegations.
func (m Manager) FindActiveDelegations(ctx context.Context, delegateID string) ([]Delegation, error) {
	found, err := m.Store.FindActiveForDelegate(ctx, delegateID, m.now())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreError, "listing active delegations", err)
	}
	return found, nil
}

// ToPolicyRules projects every active delegation delegateID holds into the
// Cartesian product of its scope as synthetic Allow rules.
func (m Manager) ToPolicyRules(ctx context.Context, delegateID string) ([]policy.PolicyRule, error) {
	active, err := m.FindActiveDelegations(ctx, delegateID)
	if err != nil {
		return nil, err
	}
	var rules []policy.PolicyRule
	for _, d := range active {
		var domain *policy.Domain
		if d.Scope.Domain != "" {
			domain = &policy.Domain{ID: d.Scope.Domain}
		}
		for _, r := range d.Scope.Resources {
			for _, a := range d.Scope.Actions {
				rules = append(rules, policy.PolicyRule{
					Subject:  delegateID,
					Resource: r,
					Action:   a,
					Effect:   policy.Allow,
					Priority: delegatedPriority,
					Domain:   domain,
				})
			}
		}
	}
	return rules, nil
}

// CanDelegate reports whether delegator's own policy already grants every
// concrete (resource, action) pair in scope, without creating anything —
// the same containment check Delegate runs, exposed standalone.
func (m Manager) CanDelegate(ctx context.Context, delegator policy.Subject, scope Scope) bool {
	return m.Validator.checkContainment(ctx, scope, delegator) == nil
}
