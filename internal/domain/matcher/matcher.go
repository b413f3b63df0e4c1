// Package matcher implements the four rule-matching strategies: ACL
// (identity), RBAC (role), ABAC (attribute), and RESTful (URL-path). Each
// answers exactly one question — does this rule apply to this (subject,
// resource, action) triple? — and none of them touches I/O; ABAC's clock
// read (for request.time) is the only external dependency, injected at
// construction.
package matcher

import "github.com/sentrypolicy/authzcore/internal/domain/policy"

// Matcher decides whether rule applies to a (subject, resource, action)
// triple. Implementations must be safe for concurrent use given immutable
// inputs.
type Matcher interface {
	Matches(rule policy.ConditionalPolicyRule, subject policy.Subject, resource policy.Resource, action policy.Action) bool
}
