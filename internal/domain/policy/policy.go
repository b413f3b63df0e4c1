package policy

import "sort"

// Policy is an ordered sequence of rules, optionally named and optionally
// declaring a parent policy by name (Extends). Policy values are immutable:
// every mutating-looking method returns a new Policy rather than editing
// in place, matching the value layer's overall immutability discipline.
//
// Rules are ConditionalPolicyRule rather than bare PolicyRule: ABAC's
// condition is modeled as an extension of PolicyRule, and since ABAC is
// a selectable matcher strategy rather than a separate data model, a
// Policy must be able to carry a condition on any rule. A rule with
// Condition == "" behaves exactly like a bare PolicyRule under every
// matcher — ACL/RBAC/RESTful ignore Condition entirely, and ABAC treats an
// empty condition as always-true.
type Policy struct {
	Name    string
	Extends string
	Rules   []ConditionalPolicyRule
}

// AddRule returns a new Policy with rule appended.
func (p Policy) AddRule(rule ConditionalPolicyRule) Policy {
	rules := make([]ConditionalPolicyRule, len(p.Rules)+1)
	copy(rules, p.Rules)
	rules[len(p.Rules)] = rule
	return Policy{Name: p.Name, Extends: p.Extends, Rules: rules}
}

// SortedByPriority returns a new Policy with rules ordered by descending
// priority, stable with respect to original order for equal priorities.
func (p Policy) SortedByPriority() Policy {
	rules := make([]ConditionalPolicyRule, len(p.Rules))
	copy(rules, p.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return Policy{Name: p.Name, Extends: p.Extends, Rules: rules}
}

// InheritFrom returns a new policy whose rules are base.Rules followed by
// p.Rules, preserving p's Name and Extends. Multi-level `extends` chains
// are the caller's responsibility: resolve bottom-up, calling InheritFrom
// repeatedly from the root policy down to the leaf.
func (p Policy) InheritFrom(base Policy) Policy {
	rules := make([]ConditionalPolicyRule, 0, len(base.Rules)+len(p.Rules))
	rules = append(rules, base.Rules...)
	rules = append(rules, p.Rules...)
	return Policy{Name: p.Name, Extends: p.Extends, Rules: rules}
}
