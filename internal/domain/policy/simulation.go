package policy

// SimulationResult is a side-effect-free, timed evaluation outcome
// returned by package simulate. MatchedRules may be empty if the matcher
// in use does not expose which rules matched.
type SimulationResult struct {
	Effect          Effect
	Policy          Policy
	Subject         Subject
	Resource        Resource
	Action          Action
	ExecutionTimeMs float64
	MatchedRules    []ConditionalPolicyRule
}
