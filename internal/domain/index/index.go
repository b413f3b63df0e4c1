// Package index implements the indexed matcher accelerator: it wraps any
// base matcher, builds subject/resource/action hash indexes over a
// policy's rules, and narrows the candidate set before delegating to the
// base matcher — with an optional short-circuit path that stops at the
// first matching Deny.
package index

import (
	"github.com/sentrypolicy/authzcore/internal/domain/matcher"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
	"github.com/sentrypolicy/authzcore/internal/domain/resolve"
)

// nullResource is the sentinel bucket key for rules with no resource
// pattern; null is stored under a sentinel key.
const nullResource = "\x00null"

// Indexed wraps Base with hash-map indexes over a policy's rules. The
// zero value is a valid, un-indexed matcher: Build must be called before
// the index is populated, but every query method still works by falling
// back to a full scan when un-indexed.
type Indexed struct {
	Base matcher.Matcher

	rules     []policy.ConditionalPolicyRule
	bySubject map[string][]policy.ConditionalPolicyRule
	byAction  map[string][]policy.ConditionalPolicyRule
	byResource map[string][]policy.ConditionalPolicyRule
	built     bool
}

// New builds an un-indexed wrapper around base. Call Build with a policy
// before querying to get accelerated lookups.
func New(base matcher.Matcher) *Indexed {
	return &Indexed{Base: base}
}

// Build (re)computes the subject/resource/action indexes over pol.Rules.
// Call this whenever the policy changes.
func (ix *Indexed) Build(pol policy.Policy) {
	ix.rules = pol.Rules
	ix.bySubject = make(map[string][]policy.ConditionalPolicyRule, len(pol.Rules))
	ix.byAction = make(map[string][]policy.ConditionalPolicyRule, len(pol.Rules))
	ix.byResource = make(map[string][]policy.ConditionalPolicyRule, len(pol.Rules))
	for _, rule := range pol.Rules {
		ix.bySubject[rule.Subject] = append(ix.bySubject[rule.Subject], rule)
		ix.byAction[rule.Action] = append(ix.byAction[rule.Action], rule)
		key := rule.Resource
		if key == "" {
			key = nullResource
		}
		ix.byResource[key] = append(ix.byResource[key], rule)
	}
	ix.built = true
}

// CandidateRules returns the union of the subject-ID bucket and the "*"
// subject bucket (resource/action dimensions are reserved for future
// refinement), or every rule when un-indexed.
func (ix *Indexed) CandidateRules(subject policy.Subject) []policy.ConditionalPolicyRule {
	if !ix.built {
		return ix.rules
	}
	candidates := make([]policy.ConditionalPolicyRule, 0, len(ix.bySubject[subject.ID])+len(ix.bySubject["*"]))
	candidates = append(candidates, ix.bySubject[subject.ID]...)
	if subject.ID != "*" {
		candidates = append(candidates, ix.bySubject["*"]...)
	}
	return candidates
}

// Size reports how many rules the index currently holds, for callers
// wiring up observability (e.g. promexport's cache-size gauge).
func (ix *Indexed) Size() int {
	return len(ix.rules)
}

// Matches implements matcher.Matcher by delegating straight to Base,
// letting Indexed itself be used as a drop-in base matcher where needed.
func (ix *Indexed) Matches(rule policy.ConditionalPolicyRule, subject policy.Subject, resource policy.Resource, action policy.Action) bool {
	return ix.Base.Matches(rule, subject, resource, action)
}

// Evaluate narrows to candidate rules, filters them through Base, and
// resolves the effect — equivalent to evaluate.Evaluator but index-backed.
func (ix *Indexed) Evaluate(subject policy.Subject, resource policy.Resource, action policy.Action) policy.Effect {
	return resolve.Effect(ix.filteredCandidates(subject, resource, action))
}

// EvaluateShortCircuit is Evaluate's fast path: it stops at the first
// matching Deny instead of resolving the full candidate set.
func (ix *Indexed) EvaluateShortCircuit(subject policy.Subject, resource policy.Resource, action policy.Action) policy.Effect {
	matches := ix.filteredCandidates(subject, resource, action)
	if len(matches) == 0 {
		return policy.Deny
	}
	if deny, found := resolve.ShortCircuit(matches); found && deny {
		return policy.Deny
	}
	return policy.Allow
}

func (ix *Indexed) filteredCandidates(subject policy.Subject, resource policy.Resource, action policy.Action) []policy.ConditionalPolicyRule {
	candidates := ix.CandidateRules(subject)
	matches := make([]policy.ConditionalPolicyRule, 0, len(candidates))
	for _, rule := range candidates {
		if ix.Base.Matches(rule, subject, resource, action) {
			matches = append(matches, rule)
		}
	}
	return matches
}
