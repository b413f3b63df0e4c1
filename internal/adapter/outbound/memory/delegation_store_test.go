package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/delegation"
)

func TestDelegationStore_CreateAndFindActiveForDelegate(t *testing.T) {
	store := NewDelegationStore()
	now := time.Now()
	d := delegation.Delegation{
		ID: "d1", DelegatorID: "alice", DelegateID: "bob",
		CreatedAt: now, Status: delegation.Active,
	}
	if err := store.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := store.FindActiveForDelegate(context.Background(), "bob", now)
	if err != nil || len(found) != 1 {
		t.Fatalf("expected one active delegation, got %d, err %v", len(found), err)
	}
}

func TestDelegationStore_RevokeTransitionsStatus(t *testing.T) {
	store := NewDelegationStore()
	now := time.Now()
	d := delegation.Delegation{ID: "d1", DelegatorID: "alice", DelegateID: "bob", CreatedAt: now, Status: delegation.Active}
	_ = store.Create(context.Background(), d)

	if err := store.Revoke(context.Background(), "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, _ := store.FindActiveForDelegate(context.Background(), "bob", now)
	if len(found) != 0 {
		t.Fatalf("expected no active delegations after revoke, got %d", len(found))
	}
}

func TestDelegationStore_RevokeUnknownIDIsNoop(t *testing.T) {
	store := NewDelegationStore()
	if err := store.Revoke(context.Background(), "missing"); err != nil {
		t.Fatalf("expected revoking an unknown ID to be a no-op, got %v", err)
	}
}

func TestDelegationStore_FindOutgoingTransitiveFiltersNonTransitive(t *testing.T) {
	store := NewDelegationStore()
	now := time.Now()
	_ = store.Create(context.Background(), delegation.Delegation{
		ID: "transitive", DelegatorID: "alice", DelegateID: "bob",
		CreatedAt: now, Status: delegation.Active, IsTransitive: true,
	})
	_ = store.Create(context.Background(), delegation.Delegation{
		ID: "nontransitive", DelegatorID: "alice", DelegateID: "carol",
		CreatedAt: now, Status: delegation.Active, IsTransitive: false,
	})

	outgoing, err := store.FindOutgoingTransitive(context.Background(), "alice", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].ID != "transitive" {
		t.Fatalf("expected only the transitive delegation, got %+v", outgoing)
	}
}

func TestDelegationStore_SweepNeverPurgesActive(t *testing.T) {
	store := NewDelegationStore()
	now := time.Now()
	_ = store.Create(context.Background(), delegation.Delegation{
		ID: "active-old", DelegatorID: "alice", DelegateID: "bob",
		CreatedAt: now.Add(-48 * time.Hour), Status: delegation.Active,
	})
	_ = store.Create(context.Background(), delegation.Delegation{
		ID: "revoked-old", DelegatorID: "alice", DelegateID: "carol",
		CreatedAt: now.Add(-48 * time.Hour), Status: delegation.Revoked,
	})

	purged, err := store.Sweep(context.Background(), time.Hour, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected exactly one purged record, got %d", purged)
	}
	if store.Size() != 1 {
		t.Fatalf("expected only the active record to remain, got size %d", store.Size())
	}
}
