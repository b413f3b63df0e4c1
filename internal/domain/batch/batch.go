// Package batch implements the batch evaluator: it collapses N
// authorization queries against a single subject/action and many
// resources into one policy-loader call plus N in-memory decisions.
package batch

import (
	"context"

	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// Evaluator batches authorization decisions over a set of resources.
type Evaluator struct {
	Loader    policy.Loader
	Evaluator evaluate.Evaluator
}

// New builds a batch Evaluator from a loader and the evaluator used for
// each per-resource decision.
func New(loader policy.Loader, evaluator evaluate.Evaluator) Evaluator {
	return Evaluator{Loader: loader, Evaluator: evaluator}
}

// EvaluateBatch fetches every resource's policy in one Loader call, then
// evaluates each in memory. The result contains exactly one entry per
// input resource; a resource the loader's map omits gets the empty policy,
// which evaluates to Deny (default-deny). The result is a map, so it
// carries no order; EvaluateBatchOrdered returns the results in input
// order.
func (b Evaluator) EvaluateBatch(ctx context.Context, subject policy.Subject, resources []policy.Resource, action policy.Action) (map[string]policy.Effect, error) {
	policies, err := b.Loader.GetPoliciesForBatch(ctx, subject, resources)
	if err != nil {
		return nil, err
	}
	results := make(map[string]policy.Effect, len(resources))
	for _, res := range resources {
		pol, ok := policies[res.ID]
		if !ok {
			pol = policy.Policy{}
		}
		results[res.ID] = b.Evaluator.Evaluate(pol, subject, res, action)
	}
	return results, nil
}

// OrderedResult pairs a resource ID with its resolved effect, preserving
// input order for callers that need it.
type OrderedResult struct {
	ResourceID string
	Effect     policy.Effect
}

// EvaluateBatchOrdered is EvaluateBatch's order-preserving variant.
func (b Evaluator) EvaluateBatchOrdered(ctx context.Context, subject policy.Subject, resources []policy.Resource, action policy.Action) ([]OrderedResult, error) {
	policies, err := b.Loader.GetPoliciesForBatch(ctx, subject, resources)
	if err != nil {
		return nil, err
	}
	out := make([]OrderedResult, len(resources))
	for i, res := range resources {
		pol, ok := policies[res.ID]
		if !ok {
			pol = policy.Policy{}
		}
		out[i] = OrderedResult{ResourceID: res.ID, Effect: b.Evaluator.Evaluate(pol, subject, res, action)}
	}
	return out, nil
}
