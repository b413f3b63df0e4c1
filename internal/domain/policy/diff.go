package policy

// Diff is the result of comparing two policies by rule signature
// (package compare builds these). Added/Removed/Unchanged classify every
// rule in either policy; a rule's effect, priority, domain, or condition
// differing between old and new does not move it out of Unchanged —
// only (subject, resource, action) identity matters.
type Diff struct {
	OldPolicy Policy
	NewPolicy Policy
	Added     []ConditionalPolicyRule
	Removed   []ConditionalPolicyRule
	Unchanged []ConditionalPolicyRule
}

// IsEmpty reports whether the diff contains no added or removed rules.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// ChangeCount is |Added| + |Removed|.
func (d Diff) ChangeCount() int {
	return len(d.Added) + len(d.Removed)
}
