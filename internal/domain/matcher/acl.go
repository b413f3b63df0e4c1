package matcher

import "github.com/sentrypolicy/authzcore/internal/domain/policy"

// ACL is the identity matcher: a rule applies only when its subject,
// resource, and action patterns match the request literally (or via the
// "*" and "type:*" wildcards), where a superuser subject passes any
// subject pattern and a bare "*" subject pattern passes only a superuser.
// It ignores rule.Condition entirely.
type ACL struct{}

var _ Matcher = ACL{}

func (ACL) Matches(rule policy.ConditionalPolicyRule, subject policy.Subject, resource policy.Resource, action policy.Action) bool {
	return subjectMatches(rule.Subject, subject) &&
		resourceMatches(rule.Resource, resource) &&
		actionMatches(rule.Action, action)
}
