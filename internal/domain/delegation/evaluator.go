package delegation

import (
	"context"

	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// Evaluator wraps a base policy evaluator so a subject's active
// delegations can additively grant access the direct policy denies. It
// never overrides a direct Deny: delegation is layered on the base
// evaluator's output, not merged into its rule set.
type Evaluator struct {
	Base    evaluate.Evaluator
	Manager Manager
}

// Evaluate returns Allow if the direct evaluation already allows, or if
// the subject's active delegations, projected into a synthetic policy,
// allow. Otherwise it returns the direct result (which is Deny).
func (e Evaluator) Evaluate(ctx context.Context, pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) (policy.Effect, error) {
	direct := e.Base.Evaluate(pol, subject, resource, action)
	if direct == policy.Allow {
		return policy.Allow, nil
	}
	delegatedRules, err := e.Manager.ToPolicyRules(ctx, subject.ID)
	if err != nil {
		return policy.Deny, err
	}
	if len(delegatedRules) == 0 {
		return direct, nil
	}
	synthetic := policy.Policy{Rules: conditionalize(delegatedRules)}
	if e.Base.Evaluate(synthetic, subject, resource, action) == policy.Allow {
		return policy.Allow, nil
	}
	return direct, nil
}

func conditionalize(rules []policy.PolicyRule) []policy.ConditionalPolicyRule {
	out := make([]policy.ConditionalPolicyRule, len(rules))
	for i, r := range rules {
		out[i] = policy.ConditionalPolicyRule{PolicyRule: r}
	}
	return out
}
