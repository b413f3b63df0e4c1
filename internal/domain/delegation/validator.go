package delegation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sentrypolicy/authzcore/internal/apperr"
	"github.com/sentrypolicy/authzcore/internal/domain/clock"
	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// Validator runs the three checks required before a
// delegation may be created: permission containment, cycle detection, and
// expiry.
type Validator struct {
	Loader    policy.Loader
	Evaluator evaluate.Evaluator
	Store     Store
	Clock     clock.Clock
	// MaxDurationDays caps how far in the future expires_at may be, and
	// when non-zero forbids a null (non-expiring) delegation entirely.
	// Zero means unconfigured (no cap, null expiry allowed).
	MaxDurationDays int
}

func (v Validator) now() time.Time {
	if v.Clock == nil {
		return clock.System{}.Now()
	}
	return v.Clock.Now()
}

// Validate runs containment, cycle, and expiry checks for d, delegated by
// delegator. A nil return means the delegation may proceed.
func (v Validator) Validate(ctx context.Context, d Delegation, delegator policy.Subject) error {
	if err := v.checkContainment(ctx, d.Scope, delegator); err != nil {
		return err
	}
	if err := v.checkCycle(ctx, d); err != nil {
		return err
	}
	return v.checkExpiry(d)
}

// checkContainment verifies the delegator's own policy already grants
// every concrete (resource, action) pair the scope names. Pairs where
// either side is "*" are too broad to verify and are skipped.
func (v Validator) checkContainment(ctx context.Context, scope Scope, delegator policy.Subject) error {
	for _, resourcePattern := range scope.Resources {
		if resourcePattern == "*" {
			continue
		}
		for _, actionPattern := range scope.Actions {
			if actionPattern == "*" {
				continue
			}
			resource := policy.Resource{ID: resourcePattern, Type: resourceType(resourcePattern)}
			action := policy.Action{Name: actionPattern}
			pol, err := v.Loader.GetPoliciesFor(ctx, delegator, resource)
			if err != nil {
				return apperr.Wrap(apperr.KindLoaderError, "loading delegator policy for containment check", err)
			}
			if v.Evaluator.Evaluate(pol, delegator, resource, action) == policy.Deny {
				return apperr.New(apperr.KindDelegationValidation,
					fmt.Sprintf("containment: delegator %q does not itself hold %s on %s", delegator.ID, actionPattern, resourcePattern))
			}
		}
	}
	return nil
}

func resourceType(resourcePattern string) string {
	if idx := strings.Index(resourcePattern, ":"); idx >= 0 {
		return resourcePattern[:idx]
	}
	return resourcePattern
}

// checkCycle BFSes forward from d.DelegateID along active, transitive
// outgoing delegations. Reaching d.DelegatorID means granting d would
// close a cycle.
func (v Validator) checkCycle(ctx context.Context, d Delegation) error {
	now := v.now()
	visited := map[string]bool{d.DelegateID: true}
	queue := []string{d.DelegateID}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == d.DelegatorID {
			return apperr.New(apperr.KindDelegationValidation,
				fmt.Sprintf("cycle: %s already transitively delegates back to %s", d.DelegateID, d.DelegatorID))
		}
		outgoing, err := v.Store.FindOutgoingTransitive(ctx, node, now)
		if err != nil {
			return apperr.Wrap(apperr.KindStoreError, "walking delegation graph for cycle check", err)
		}
		for _, next := range outgoing {
			if !next.IsActive(now) || !next.CanTransit() {
				continue
			}
			if visited[next.DelegateID] {
				continue
			}
			visited[next.DelegateID] = true
			queue = append(queue, next.DelegateID)
		}
	}
	return nil
}

// checkExpiry enforces the expiry rules, including the
// optional max_duration_days cap.
func (v Validator) checkExpiry(d Delegation) error {
	now := v.now()
	if d.ExpiresAt == nil {
		if v.MaxDurationDays > 0 {
			return apperr.New(apperr.KindDelegationValidation, "expiry: null expires_at not allowed when max_duration_days is configured")
		}
		return nil
	}
	if !d.ExpiresAt.After(now) {
		return apperr.New(apperr.KindDelegationValidation, "expiry: expires_at is not in the future")
	}
	if v.MaxDurationDays > 0 {
		capAt := now.Add(time.Duration(v.MaxDurationDays) * 24 * time.Hour)
		if d.ExpiresAt.After(capAt) {
			return apperr.New(apperr.KindDelegationValidation, fmt.Sprintf("expiry: exceeds max_duration_days=%d", v.MaxDurationDays))
		}
	}
	return nil
}
