// Package resolve implements the effect resolver: it collapses a set of
// matching rules into a single Allow/Deny decision under the
// deny-override discipline.
package resolve

import (
	"sort"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// Effect collapses matches into a single decision:
//  1. no matches ⇒ Deny (default-deny);
//  2. any matching Deny rule ⇒ Deny, regardless of priority;
//  3. otherwise ⇒ Allow.
//
// matches is not mutated; it is read in descending-priority order (stable
// with respect to input order) purely so short-circuiting callers can stop
// at the first Deny — the outcome is identical either way.
func Effect(matches []policy.ConditionalPolicyRule) policy.Effect {
	if len(matches) == 0 {
		return policy.Deny
	}
	ordered := sortedByPriority(matches)
	for _, rule := range ordered {
		if rule.Effect == policy.Deny {
			return policy.Deny
		}
	}
	return policy.Allow
}

// sortedByPriority returns matches ordered by descending priority, stable
// for equal priorities, without mutating the input slice.
func sortedByPriority(matches []policy.ConditionalPolicyRule) []policy.ConditionalPolicyRule {
	out := make([]policy.ConditionalPolicyRule, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// ShortCircuit walks matches in descending-priority order and returns the
// first Deny encountered, stopping early. ok is false when no Deny is
// present — the caller must still fall back to Effect (or know the set is
// non-empty with no Deny) to get Allow, since ShortCircuit never confirms
// Allow on its own.
func ShortCircuit(matches []policy.ConditionalPolicyRule) (deny bool, ok bool) {
	ordered := sortedByPriority(matches)
	for _, rule := range ordered {
		if rule.Effect == policy.Deny {
			return true, true
		}
	}
	return false, false
}
