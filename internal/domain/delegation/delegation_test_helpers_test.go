package delegation

import (
	"context"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// fakeStore is a minimal in-memory delegation.Store for package-internal
// tests, avoiding a dependency on the memory adapter package.
type fakeStore struct {
	byID map[string]Delegation
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]Delegation)}
}

func (s *fakeStore) Create(_ context.Context, d Delegation) error {
	s.byID[d.ID] = d
	return nil
}

func (s *fakeStore) Revoke(_ context.Context, id string) error {
	d, ok := s.byID[id]
	if !ok {
		return nil
	}
	s.byID[id] = d.WithStatus(Revoked)
	return nil
}

func (s *fakeStore) FindActiveForDelegate(_ context.Context, delegateID string, now time.Time) ([]Delegation, error) {
	var out []Delegation
	for _, d := range s.byID {
		if d.DelegateID == delegateID && d.IsActive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeStore) FindOutgoingTransitive(_ context.Context, subjectID string, now time.Time) ([]Delegation, error) {
	var out []Delegation
	for _, d := range s.byID {
		if d.DelegatorID == subjectID && d.IsTransitive && d.IsActive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeStore) Sweep(_ context.Context, retention time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-retention)
	purged := 0
	for id, d := range s.byID {
		observed := d.Observe(now)
		if observed.Status == Active {
			continue
		}
		if d.CreatedAt.Before(cutoff) {
			delete(s.byID, id)
			purged++
		}
	}
	return purged, nil
}

// fakeLoader is a minimal policy.Loader stub for delegation tests:
// resourceID -> Effect for a fixed (subject, action) the tests control via
// the rules they install.
type fakeLoader struct {
	policies map[string]policy.Policy
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{policies: make(map[string]policy.Policy)}
}

func (l *fakeLoader) GetPoliciesFor(_ context.Context, _ policy.Subject, resource policy.Resource) (policy.Policy, error) {
	return l.policies[resource.ID], nil
}

func (l *fakeLoader) GetPoliciesForBatch(_ context.Context, _ policy.Subject, resources []policy.Resource) (map[string]policy.Policy, error) {
	out := make(map[string]policy.Policy, len(resources))
	for _, r := range resources {
		out[r.ID] = l.policies[r.ID]
	}
	return out, nil
}
