// Package simulate implements the policy simulator: a thin,
// side-effect-free wrapper around the policy evaluator that times the
// decision and returns the full SimulationResult.
package simulate

import (
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/clock"
	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
	"github.com/sentrypolicy/authzcore/internal/domain/resolve"
)

// Simulator runs authorization checks without persisting anything,
// emitting audit events, or touching a loader — the caller supplies the
// policy directly. Safe to run concurrently.
type Simulator struct {
	Evaluator evaluate.Evaluator
	// Clock is used only to time the run; it is not exposed to the
	// evaluator (ABAC conditions read request.time through their own
	// expr.Evaluator clock).
	Clock clock.Clock
}

// New builds a Simulator around evaluator, timing with the system clock.
func New(evaluator evaluate.Evaluator) Simulator {
	return Simulator{Evaluator: evaluator, Clock: clock.System{}}
}

// Run evaluates subject's access to resource under pol and returns a
// timed SimulationResult. No loader, store, or audit capability is
// consulted — pol is taken as given.
func (s Simulator) Run(pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) policy.SimulationResult {
	start := time.Now()
	matches := s.Evaluator.Matches(pol, subject, resource, action)
	effect := resolve.Effect(matches)
	elapsed := time.Since(start)

	return policy.SimulationResult{
		Effect:          effect,
		Policy:          pol,
		Subject:         subject,
		Resource:        resource,
		Action:          action,
		ExecutionTimeMs: float64(elapsed) / float64(time.Millisecond),
		MatchedRules:    matches,
	}
}
