// Package compare implements the policy comparator: a signature-based
// diff that classifies every rule in either policy as added, removed, or
// unchanged in O(N+M).
package compare

import "github.com/sentrypolicy/authzcore/internal/domain/policy"

// Diff builds a policy.Diff between old and new by rule signature
// (subject, resource-or-"*", action). A rule present under the same
// signature in both is Unchanged even if its effect, priority, domain, or
// condition differs.
func Diff(oldPolicy, newPolicy policy.Policy) policy.Diff {
	oldBySig := indexBySignature(oldPolicy.Rules)
	newBySig := indexBySignature(newPolicy.Rules)

	diff := policy.Diff{OldPolicy: oldPolicy, NewPolicy: newPolicy}
	for sig, rule := range oldBySig {
		if _, ok := newBySig[sig]; ok {
			diff.Unchanged = append(diff.Unchanged, rule)
		} else {
			diff.Removed = append(diff.Removed, rule)
		}
	}
	for sig, rule := range newBySig {
		if _, ok := oldBySig[sig]; !ok {
			diff.Added = append(diff.Added, rule)
		}
	}
	return diff
}

// indexBySignature maps each rule's signature key to its (last-seen) rule.
// Spec.md defines signature identity, not multiplicity, so a duplicate
// signature within one policy collapses to one entry.
func indexBySignature(rules []policy.ConditionalPolicyRule) map[string]policy.ConditionalPolicyRule {
	out := make(map[string]policy.ConditionalPolicyRule, len(rules))
	for _, rule := range rules {
		out[rule.Signature().Key()] = rule
	}
	return out
}
