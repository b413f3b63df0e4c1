package matcher

import "github.com/sentrypolicy/authzcore/internal/domain/policy"

// subjectMatches implements the identity test shared by ACL and, as its
// base case, RBAC: a "*" pattern matches only a superuser subject; an
// empty pattern matches any subject; any other pattern matches an exact
// subject ID or a superuser subject.
func subjectMatches(rulePattern string, subject policy.Subject) bool {
	if rulePattern == "*" {
		return subject.IsSuperuser()
	}
	if rulePattern == "" {
		return true
	}
	if subject.IsSuperuser() {
		return true
	}
	return rulePattern == subject.ID
}

// resourceMatches implements the resource test shared by ACL/RBAC: an
// exact resource ID match, "*", or a "type:*" wildcard matching any
// resource of that type.
func resourceMatches(rulePattern string, resource policy.Resource) bool {
	if rulePattern == "*" || rulePattern == "" {
		return true
	}
	if rest, ok := typeWildcard(rulePattern); ok {
		return rest == resource.Type
	}
	return rulePattern == resource.ID
}

// actionMatches implements the action test shared by every matcher: an
// exact action name match or "*".
func actionMatches(rulePattern string, action policy.Action) bool {
	return rulePattern == "*" || rulePattern == action.Name
}

// typeWildcard splits a "type:*" resource pattern into its type prefix.
// ok is false for anything not of that shape.
func typeWildcard(pattern string) (typ string, ok bool) {
	const suffix = ":*"
	if len(pattern) <= len(suffix) || pattern[len(pattern)-len(suffix):] != suffix {
		return "", false
	}
	return pattern[:len(pattern)-len(suffix)], true
}
