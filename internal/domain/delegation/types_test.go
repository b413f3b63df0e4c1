package delegation

import (
	"testing"
	"time"
)

func TestScope_Matches(t *testing.T) {
	scope := Scope{Resources: []string{"doc:*"}, Actions: []string{"read", "write"}}
	if !scope.Matches("doc:1", "read") {
		t.Fatal("expected scope to match doc:1/read")
	}
	if scope.Matches("folder:1", "read") {
		t.Fatal("expected scope to reject non-matching resource")
	}
	if scope.Matches("doc:1", "delete") {
		t.Fatal("expected scope to reject non-matching action")
	}
}

func TestDelegation_IsExpiredInclusive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exactlyNow := now
	d := Delegation{ExpiresAt: &exactlyNow}
	if !d.IsExpired(now) {
		t.Fatal("expected expiry exactly at now to count as expired (inclusive)")
	}

	future := now.Add(time.Hour)
	d2 := Delegation{ExpiresAt: &future}
	if d2.IsExpired(now) {
		t.Fatal("expected future expiry to not be expired yet")
	}

	d3 := Delegation{ExpiresAt: nil}
	if d3.IsExpired(now) {
		t.Fatal("expected nil expiry to never be expired")
	}
}

func TestDelegation_IsActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)

	active := Delegation{Status: Active, ExpiresAt: &future}
	if !active.IsActive(now) {
		t.Fatal("expected unexpired Active delegation to be active")
	}

	revoked := Delegation{Status: Revoked, ExpiresAt: &future}
	if revoked.IsActive(now) {
		t.Fatal("expected Revoked delegation to not be active regardless of expiry")
	}

	past := now.Add(-time.Hour)
	expiredByTime := Delegation{Status: Active, ExpiresAt: &past}
	if expiredByTime.IsActive(now) {
		t.Fatal("expected Active-but-time-expired delegation to not be active")
	}
}

func TestDelegation_WithStatusReturnsCopy(t *testing.T) {
	original := Delegation{ID: "d1", Status: Active}
	revoked := original.WithStatus(Revoked)

	if original.Status != Active {
		t.Fatal("expected WithStatus to not mutate the receiver")
	}
	if revoked.Status != Revoked {
		t.Fatal("expected returned copy to carry the new status")
	}
}

func TestDelegation_ObserveTransitionsExpiredLazily(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	d := Delegation{Status: Active, ExpiresAt: &past}
	observed := d.Observe(now)
	if observed.Status != Expired {
		t.Fatalf("expected lazy transition to Expired, got %v", observed.Status)
	}

	revoked := Delegation{Status: Revoked, ExpiresAt: &past}
	if got := revoked.Observe(now); got.Status != Revoked {
		t.Fatalf("expected Revoked to remain absorbing, got %v", got.Status)
	}
}

func TestDelegation_CanTransit(t *testing.T) {
	if (Delegation{IsTransitive: true}).CanTransit() != true {
		t.Fatal("expected transitive delegation to report CanTransit true")
	}
	if (Delegation{IsTransitive: false}).CanTransit() != false {
		t.Fatal("expected non-transitive delegation to report CanTransit false")
	}
}
