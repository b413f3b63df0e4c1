package policy

import "context"

// Loader is the external policy-loading capability. Implementations must
// return at most one Policy per resource; a resource absent from a batch
// result implies the empty policy (which evaluates to Deny by
// default-deny).
type Loader interface {
	// GetPoliciesFor returns the policy governing subject's access to
	// resource.
	GetPoliciesFor(ctx context.Context, subject Subject, resource Resource) (Policy, error)
	// GetPoliciesForBatch returns, in one call, the policy for every
	// resource in resources, keyed by Resource.ID.
	GetPoliciesForBatch(ctx context.Context, subject Subject, resources []Resource) (map[string]Policy, error)
}

// SubjectResolver resolves a host-specific context (request headers, a
// session token, whatever the embedding application uses) into a Subject.
// The core never inspects the context type; it is opaque by design.
type SubjectResolver interface {
	Resolve(ctx context.Context, hostContext any) (Subject, error)
}
