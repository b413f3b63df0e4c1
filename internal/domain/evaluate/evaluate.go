// Package evaluate implements the policy evaluator: a
// small orchestrator that walks a policy's rules, asks a matcher which
// ones apply, and hands the matches to the effect resolver.
package evaluate

import (
	"github.com/sentrypolicy/authzcore/internal/domain/matcher"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
	"github.com/sentrypolicy/authzcore/internal/domain/resolve"
)

// Evaluator decides a single authorization request against a policy. It is
// side-effect-free aside from clock reads inside ABAC conditions, and
// thread-safe given immutable inputs.
type Evaluator struct {
	Matcher matcher.Matcher
}

// New builds an Evaluator using m to test rule applicability.
func New(m matcher.Matcher) Evaluator {
	return Evaluator{Matcher: m}
}

// Evaluate walks pol's rules, collects every rule the matcher says applies
// to (subject, resource, action), and returns the resolved effect.
func (e Evaluator) Evaluate(pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) policy.Effect {
	matches := e.Matches(pol, subject, resource, action)
	return resolve.Effect(matches)
}

// Matches returns every rule in pol that applies to the request, in the
// policy's original order.
func (e Evaluator) Matches(pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) []policy.ConditionalPolicyRule {
	var matches []policy.ConditionalPolicyRule
	for _, rule := range pol.Rules {
		if e.Matcher.Matches(rule, subject, resource, action) {
			matches = append(matches, rule)
		}
	}
	return matches
}
