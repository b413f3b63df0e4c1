package policy

// PolicyRule is a single authorization rule. Subject, Resource, and Action
// may be literals, wildcards ("*"), or matcher-specific patterns
// (e.g. "type:*", "/api/x/:id", "/api/x/*"); interpretation is the
// responsibility of the selected matcher (package matcher), not this type.
// Resource == "" is treated as "no target" (matches any resource) by the
// ACL/RBAC matchers.
type PolicyRule struct {
	Subject  string
	Resource string
	Action   string
	Effect   Effect
	Priority Priority
	Domain   *Domain
}

// ConditionalPolicyRule extends PolicyRule with an ABAC condition: a source
// expression (see package expr), not a closure. Conditions are kept as data
// so they stay serializable, auditable, diffable, and portable.
type ConditionalPolicyRule struct {
	PolicyRule
	Condition string
}

// ToPolicyRule strips the condition, yielding the plain rule underneath.
func (c ConditionalPolicyRule) ToPolicyRule() PolicyRule {
	return c.PolicyRule
}

// Signature returns the rule's diff identity: (subject, resource-or-"*",
// action). Effect, priority, and domain are not part of identity.
func (r PolicyRule) Signature() RuleSignature {
	resource := r.Resource
	if resource == "" {
		resource = "*"
	}
	return RuleSignature{Subject: r.Subject, Resource: resource, Action: r.Action}
}

// RuleSignature is the (subject, resource, action) identity triple used by
// the comparator (package compare) to classify rules as added, removed, or
// unchanged regardless of effect/priority/domain differences.
type RuleSignature struct {
	Subject  string
	Resource string
	Action   string
}

// Key joins the signature into a single comparable string, unambiguous
// because '\x00' cannot appear in any of the three fields in practice (rule
// strings are patterns/ids, never raw binary).
func (s RuleSignature) Key() string {
	return s.Subject + "\x00" + s.Resource + "\x00" + s.Action
}
