// Package memory provides in-memory implementations of the core's
// outbound capability ports: policy loader, subject resolver, delegation
// store, and rate limiter. All are for development, testing, and the
// authzctl demo CLI — production deployments back these with a real
// store (see internal/adapter/outbound/sqlite).
package memory

import (
	"context"
	"sync"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// PolicyLoader implements policy.Loader over an in-memory map keyed by
// resource ID, with optional type-level and fallback policies. Thread-safe
// for concurrent reads and writes.
type PolicyLoader struct {
	mu         sync.RWMutex
	byResource map[string]policy.Policy
	byType     map[string]policy.Policy
	fallback   policy.Policy
}

// NewPolicyLoader returns an empty loader; every lookup falls back to the
// empty policy (which evaluates to Deny) until Put/PutType/SetFallback is
// called.
func NewPolicyLoader() *PolicyLoader {
	return &PolicyLoader{
		byResource: make(map[string]policy.Policy),
		byType:     make(map[string]policy.Policy),
	}
}

var _ policy.Loader = (*PolicyLoader)(nil)

// Put associates pol with a specific resource ID, taking precedence over
// any type-level or fallback policy.
func (l *PolicyLoader) Put(resourceID string, pol policy.Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byResource[resourceID] = pol
}

// PutType associates pol with every resource of the given type that has
// no more specific resource-ID entry.
func (l *PolicyLoader) PutType(resourceType string, pol policy.Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byType[resourceType] = pol
}

// SetFallback sets the policy returned when neither a resource-ID nor a
// type-level entry matches.
func (l *PolicyLoader) SetFallback(pol policy.Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fallback = pol
}

// GetPoliciesFor implements policy.Loader. subject is accepted to satisfy
// the port but unused here — this loader does not support per-subject
// policy variation.
func (l *PolicyLoader) GetPoliciesFor(_ context.Context, _ policy.Subject, resource policy.Resource) (policy.Policy, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lookupLocked(resource), nil
}

// GetPoliciesForBatch resolves every resource in one call, matching the
// batch evaluator's one-loader-call contract.
func (l *PolicyLoader) GetPoliciesForBatch(_ context.Context, _ policy.Subject, resources []policy.Resource) (map[string]policy.Policy, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]policy.Policy, len(resources))
	for _, res := range resources {
		out[res.ID] = l.lookupLocked(res)
	}
	return out, nil
}

func (l *PolicyLoader) lookupLocked(resource policy.Resource) policy.Policy {
	if pol, ok := l.byResource[resource.ID]; ok {
		return pol
	}
	if pol, ok := l.byType[resource.Type]; ok {
		return pol
	}
	return l.fallback
}
