// Package inherit implements the path-based (hierarchical) half of policy
// inheritance. Named (extends) inheritance lives on
// policy.Policy itself (InheritFrom), since it needs no extra machinery
// beyond rule concatenation.
package inherit

import (
	"strings"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// ExpandInheritedRules copies every rule in pol, and for each rule whose
// Resource is a strict path-prefix of target.ID (target.ID starts with
// rule.Resource + "/"), synthesizes an additional rule identical to the
// original except with Resource set to target.ID. Rules with an empty or
// "*" Resource are excluded from inheritance.
func ExpandInheritedRules(pol policy.Policy, target policy.Resource) policy.Policy {
	expanded := make([]policy.ConditionalPolicyRule, 0, len(pol.Rules))
	expanded = append(expanded, pol.Rules...)
	for _, rule := range pol.Rules {
		if !isInheritable(rule.Resource) {
			continue
		}
		if !strings.HasPrefix(target.ID, rule.Resource+"/") {
			continue
		}
		inherited := rule
		inherited.Resource = target.ID
		expanded = append(expanded, inherited)
	}
	return policy.Policy{Name: pol.Name, Extends: pol.Extends, Rules: expanded}
}

func isInheritable(resource string) bool {
	return resource != "" && resource != "*"
}
