package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/delegation"
)

// DelegationStore implements delegation.Store with an in-memory map,
// keyed by delegation ID. Grounded on the same copy-in/copy-out,
// RWMutex-guarded shape the session store uses: reads and writes never
// hand out a reference into the map, so callers cannot mutate state out
// from under the store.
type DelegationStore struct {
	mu          sync.RWMutex
	delegations map[string]delegation.Delegation
}

// NewDelegationStore returns an empty store.
func NewDelegationStore() *DelegationStore {
	return &DelegationStore{delegations: make(map[string]delegation.Delegation)}
}

var _ delegation.Store = (*DelegationStore)(nil)

func (s *DelegationStore) Create(_ context.Context, d delegation.Delegation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegations[d.ID] = d
	return nil
}

func (s *DelegationStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.delegations[id]
	if !ok {
		return nil
	}
	s.delegations[id] = d.WithStatus(delegation.Revoked)
	return nil
}

func (s *DelegationStore) FindActiveForDelegate(_ context.Context, delegateID string, now time.Time) ([]delegation.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []delegation.Delegation
	for _, d := range s.delegations {
		if d.DelegateID == delegateID && d.IsActive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DelegationStore) FindOutgoingTransitive(_ context.Context, subjectID string, now time.Time) ([]delegation.Delegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []delegation.Delegation
	for _, d := range s.delegations {
		if d.DelegatorID == subjectID && d.IsTransitive && d.IsActive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Sweep purges terminal (Revoked/Expired) records whose CreatedAt is older
// than now-retention. Active records are never purged regardless of age.
func (s *DelegationStore) Sweep(_ context.Context, retention time.Duration, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-retention)
	purged := 0
	for id, d := range s.delegations {
		observed := d.Observe(now)
		if observed.Status == delegation.Active {
			continue
		}
		if d.CreatedAt.Before(cutoff) {
			delete(s.delegations, id)
			purged++
		}
	}
	return purged, nil
}

// Size returns the number of delegation records currently stored,
// including terminal ones awaiting sweep. Useful for tests.
func (s *DelegationStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.delegations)
}
