package matcher

import "github.com/sentrypolicy/authzcore/internal/domain/policy"

// RBAC is the role matcher: like ACL, but the subject test also succeeds
// when rule.Subject names a role present in subject.Attributes["roles"].
// Role strings are compared verbatim, case-sensitive.
type RBAC struct{}

var _ Matcher = RBAC{}

func (RBAC) Matches(rule policy.ConditionalPolicyRule, subject policy.Subject, resource policy.Resource, action policy.Action) bool {
	return rbacSubjectMatches(rule.Subject, subject) &&
		resourceMatches(rule.Resource, resource) &&
		actionMatches(rule.Action, action)
}

func rbacSubjectMatches(rulePattern string, subject policy.Subject) bool {
	if subjectMatches(rulePattern, subject) {
		return true
	}
	return subject.HasRole(rulePattern)
}
