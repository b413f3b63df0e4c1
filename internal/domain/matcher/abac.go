package matcher

import (
	"github.com/sentrypolicy/authzcore/internal/domain/expr"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// ABAC runs the RBAC subject/resource/action tests (which subsume ACL's),
// then additionally evaluates the rule's condition expression. A missing
// condition is always true; a condition that fails to evaluate for any
// reason is false, propagating deny-by-default.
type ABAC struct {
	Evaluator expr.Evaluator
}

var _ Matcher = ABAC{}

func (a ABAC) Matches(rule policy.ConditionalPolicyRule, subject policy.Subject, resource policy.Resource, action policy.Action) bool {
	if !rbacSubjectMatches(rule.Subject, subject) ||
		!resourceMatches(rule.Resource, resource) ||
		!actionMatches(rule.Action, action) {
		return false
	}
	return a.Evaluator.Evaluate(rule.Condition, subject, resource)
}
