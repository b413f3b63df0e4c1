package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/batch"
	"github.com/sentrypolicy/authzcore/internal/domain/compare"
	"github.com/sentrypolicy/authzcore/internal/domain/delegation"
	"github.com/sentrypolicy/authzcore/internal/domain/evaluate"
	"github.com/sentrypolicy/authzcore/internal/domain/inherit"
	"github.com/sentrypolicy/authzcore/internal/domain/matcher"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
	"github.com/sentrypolicy/authzcore/internal/domain/simulate"
)

// Engine is the top-level facade wiring every domain package into the
// operations the library exposes: evaluate, evaluate_batch, simulate,
// compare, expand_inherited_rules, and — when a delegation.Manager is
// configured — delegate/revoke/find_active_delegations/to_policy_rules/
// can_delegate. It caches resolved decisions in a bounded LRU keyed by a
// hash of the full subject/resource/action request (IDs, types, and
// attribute bags), cleared by InvalidateCache.
type Engine struct {
	loader    policy.Loader
	evaluator evaluate.Evaluator
	batch     batch.Evaluator
	delegated *delegation.Evaluator // nil disables delegation-aware evaluation
	cache     *resultCache
	logger    *slog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithCacheSize overrides the default decision cache size (1000 entries).
func WithCacheSize(size int) Option {
	return func(e *Engine) { e.cache = newResultCache(size) }
}

// WithDelegation enables delegation-aware evaluation via manager.
func WithDelegation(manager delegation.Manager) Option {
	return func(e *Engine) {
		e.delegated = &delegation.Evaluator{Base: e.evaluator, Manager: manager}
	}
}

// WithLogger overrides the engine's logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New builds an Engine around loader, using strategy as the base matcher
// and evaluator for every rule test.
func New(loader policy.Loader, strategy matcher.Matcher, opts ...Option) *Engine {
	e := &Engine{
		loader:    loader,
		evaluator: evaluate.New(strategy),
		cache:     newResultCache(1000),
		logger:    slog.Default(),
	}
	e.batch = batch.New(loader, e.evaluator)
	for _, opt := range opts {
		opt(e)
	}
	if e.delegated != nil {
		e.delegated.Base = e.evaluator
	}
	return e
}

// Evaluate resolves a single authorization decision, checking the LRU
// cache first and falling back to a loader fetch plus evaluation (direct,
// or delegation-aware when WithDelegation was supplied).
func (e *Engine) Evaluate(ctx context.Context, subject policy.Subject, resource policy.Resource, action policy.Action) (policy.Effect, error) {
	key := computeCacheKey(subject, resource, action)
	if effect, ok := e.cache.Get(key); ok {
		return effect, nil
	}

	pol, err := e.loader.GetPoliciesFor(ctx, subject, resource)
	if err != nil {
		return policy.Deny, err
	}

	var effect policy.Effect
	if e.delegated != nil {
		effect, err = e.delegated.Evaluate(ctx, pol, subject, resource, action)
		if err != nil {
			return policy.Deny, err
		}
	} else {
		effect = e.evaluator.Evaluate(pol, subject, resource, action)
	}

	e.cache.Put(key, effect)
	return effect, nil
}

// EvaluateBatch fetches every resource's policy in one loader call and
// evaluates each. It bypasses the decision cache — batch callers already
// collapse the loader round trip, and mixing per-call caching in would
// complicate the "exactly one entry per input resource" contract for no
// real benefit.
func (e *Engine) EvaluateBatch(ctx context.Context, subject policy.Subject, resources []policy.Resource, action policy.Action) (map[string]policy.Effect, error) {
	return e.batch.EvaluateBatch(ctx, subject, resources, action)
}

// Simulate runs a side-effect-free, timed evaluation against a
// caller-supplied policy — it never touches the loader or the cache.
func (e *Engine) Simulate(pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) policy.SimulationResult {
	return simulate.New(e.evaluator).Run(pol, subject, resource, action)
}

// Compare produces a signature-based PolicyDiff between two policies.
func (e *Engine) Compare(oldPolicy, newPolicy policy.Policy) policy.Diff {
	return compare.Diff(oldPolicy, newPolicy)
}

// ExpandInheritedRules projects pol's path-prefix rules onto target.
func (e *Engine) ExpandInheritedRules(pol policy.Policy, target policy.Resource) policy.Policy {
	return inherit.ExpandInheritedRules(pol, target)
}

// InvalidateCache clears every cached decision. Call this after the
// loader's underlying policy data changes.
func (e *Engine) InvalidateCache() {
	e.cache.Clear()
	e.logger.Info("engine decision cache cleared")
}

// Delegate, Revoke, FindActiveDelegations, ToPolicyRules, and CanDelegate
// pass straight through to the configured delegation.Manager, giving
// callers one facade for every delegation operation. They panic if no
// manager was configured via WithDelegation — a programming error, not a
// runtime condition callers should need to check per call.

func (e *Engine) manager() delegation.Manager {
	if e.delegated == nil {
		panic("service: delegation operation called without WithDelegation configured")
	}
	return e.delegated.Manager
}

func (e *Engine) Delegate(ctx context.Context, delegator, delegate policy.Subject, scope delegation.Scope, expiresAt *time.Time, transitive bool, metadata map[string]string) (delegation.Delegation, error) {
	return e.manager().Delegate(ctx, delegator, delegate, scope, expiresAt, transitive, metadata)
}

func (e *Engine) Revoke(ctx context.Context, id string) error {
	return e.manager().Revoke(ctx, id)
}

func (e *Engine) FindActiveDelegations(ctx context.Context, delegateID string) ([]delegation.Delegation, error) {
	return e.manager().FindActiveDelegations(ctx, delegateID)
}

func (e *Engine) ToPolicyRules(ctx context.Context, delegateID string) ([]policy.PolicyRule, error) {
	return e.manager().ToPolicyRules(ctx, delegateID)
}

func (e *Engine) CanDelegate(ctx context.Context, delegator policy.Subject, scope delegation.Scope) bool {
	return e.manager().CanDelegate(ctx, delegator, scope)
}
