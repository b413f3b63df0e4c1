package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/delegation"
)

func TestDelegationStore_CreateAndFindActiveForDelegate(t *testing.T) {
	store, err := NewDelegationStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDelegationStore() error: %v", err)
	}
	ctx := context.Background()
	now := time.Now()

	d := delegation.Delegation{
		ID: "d1", DelegatorID: "alice", DelegateID: "bob",
		Scope: delegation.Scope{Resources: []string{"doc:1"}, Actions: []string{"read"}},
		CreatedAt: now, Status: delegation.Active,
	}
	if err := store.Create(ctx, d); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	found, err := store.FindActiveForDelegate(ctx, "bob", now)
	if err != nil {
		t.Fatalf("FindActiveForDelegate() error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected one active delegation, got %d", len(found))
	}
	if len(found[0].Scope.Resources) != 1 || found[0].Scope.Resources[0] != "doc:1" {
		t.Errorf("scope not round-tripped correctly: %+v", found[0].Scope)
	}
}

func TestDelegationStore_RevokeTransitionsStatus(t *testing.T) {
	store, err := NewDelegationStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDelegationStore() error: %v", err)
	}
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, delegation.Delegation{ID: "d1", DelegatorID: "alice", DelegateID: "bob", CreatedAt: now, Status: delegation.Active})

	if err := store.Revoke(ctx, "d1"); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}
	found, err := store.FindActiveForDelegate(ctx, "bob", now)
	if err != nil {
		t.Fatalf("FindActiveForDelegate() error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no active delegations after revoke, got %d", len(found))
	}
}

func TestDelegationStore_ExpiryRoundTrips(t *testing.T) {
	store, err := NewDelegationStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDelegationStore() error: %v", err)
	}
	ctx := context.Background()
	now := time.Now()
	expires := now.Add(24 * time.Hour)

	_ = store.Create(ctx, delegation.Delegation{
		ID: "d1", DelegatorID: "alice", DelegateID: "bob",
		CreatedAt: now, ExpiresAt: &expires, Status: delegation.Active,
	})

	found, err := store.FindActiveForDelegate(ctx, "bob", now)
	if err != nil {
		t.Fatalf("FindActiveForDelegate() error: %v", err)
	}
	if len(found) != 1 || found[0].ExpiresAt == nil {
		t.Fatalf("expected expiry to round-trip, got %+v", found)
	}

	// Now jump past expiry: no longer active.
	found, err = store.FindActiveForDelegate(ctx, "bob", now.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("FindActiveForDelegate() error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected expired delegation to be excluded, got %d", len(found))
	}
}

func TestDelegationStore_FindOutgoingTransitiveFiltersNonTransitive(t *testing.T) {
	store, err := NewDelegationStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDelegationStore() error: %v", err)
	}
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, delegation.Delegation{ID: "transitive", DelegatorID: "alice", DelegateID: "bob", CreatedAt: now, Status: delegation.Active, IsTransitive: true})
	_ = store.Create(ctx, delegation.Delegation{ID: "nontransitive", DelegatorID: "alice", DelegateID: "carol", CreatedAt: now, Status: delegation.Active, IsTransitive: false})

	outgoing, err := store.FindOutgoingTransitive(ctx, "alice", now)
	if err != nil {
		t.Fatalf("FindOutgoingTransitive() error: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].ID != "transitive" {
		t.Fatalf("expected only the transitive delegation, got %+v", outgoing)
	}
}

func TestDelegationStore_SweepPurgesOldRevokedButNeverActive(t *testing.T) {
	store, err := NewDelegationStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDelegationStore() error: %v", err)
	}
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, delegation.Delegation{ID: "active-old", DelegatorID: "alice", DelegateID: "bob", CreatedAt: now.Add(-48 * time.Hour), Status: delegation.Active})
	_ = store.Create(ctx, delegation.Delegation{ID: "revoked-old", DelegatorID: "alice", DelegateID: "carol", CreatedAt: now.Add(-48 * time.Hour), Status: delegation.Revoked})
	_ = store.Create(ctx, delegation.Delegation{ID: "revoked-recent", DelegatorID: "alice", DelegateID: "dave", CreatedAt: now, Status: delegation.Revoked})

	purged, err := store.Sweep(ctx, time.Hour, now)
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected exactly one purged record, got %d", purged)
	}

	var remaining int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM delegations`).Scan(&remaining); err != nil {
		t.Fatalf("counting remaining rows: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 records to remain, got %d", remaining)
	}
}

func TestDelegationStore_MetadataRoundTrips(t *testing.T) {
	store, err := NewDelegationStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDelegationStore() error: %v", err)
	}
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, delegation.Delegation{
		ID: "d1", DelegatorID: "alice", DelegateID: "bob",
		CreatedAt: now, Status: delegation.Active,
		Metadata: map[string]string{"reason": "vacation coverage"},
	})

	found, err := store.FindActiveForDelegate(ctx, "bob", now)
	if err != nil {
		t.Fatalf("FindActiveForDelegate() error: %v", err)
	}
	if len(found) != 1 || found[0].Metadata["reason"] != "vacation coverage" {
		t.Fatalf("expected metadata to round-trip, got %+v", found)
	}
}
