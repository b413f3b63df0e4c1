package resolve

import (
	"testing"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

func r(effect policy.Effect, priority policy.Priority) policy.ConditionalPolicyRule {
	return policy.ConditionalPolicyRule{PolicyRule: policy.PolicyRule{Effect: effect, Priority: priority}}
}

func TestEffect_NoMatchesDeniesByDefault(t *testing.T) {
	if got := Effect(nil); got != policy.Deny {
		t.Fatalf("expected default-deny for no matches, got %v", got)
	}
}

func TestEffect_AnyDenyWins(t *testing.T) {
	matches := []policy.ConditionalPolicyRule{
		r(policy.Allow, 100),
		r(policy.Deny, 1),
	}
	if got := Effect(matches); got != policy.Deny {
		t.Fatalf("expected deny-override to win regardless of priority, got %v", got)
	}
}

func TestEffect_AllAllowYieldsAllow(t *testing.T) {
	matches := []policy.ConditionalPolicyRule{r(policy.Allow, 1), r(policy.Allow, 5)}
	if got := Effect(matches); got != policy.Allow {
		t.Fatalf("expected allow, got %v", got)
	}
}

func TestEffect_DoesNotMutateInput(t *testing.T) {
	matches := []policy.ConditionalPolicyRule{r(policy.Allow, 1), r(policy.Deny, 100)}
	original := make([]policy.ConditionalPolicyRule, len(matches))
	copy(original, matches)

	Effect(matches)

	for i := range matches {
		if matches[i] != original[i] {
			t.Fatalf("Effect mutated its input at index %d", i)
		}
	}
}

func TestShortCircuit_FindsDeny(t *testing.T) {
	matches := []policy.ConditionalPolicyRule{r(policy.Allow, 1), r(policy.Deny, 5)}
	deny, ok := ShortCircuit(matches)
	if !ok || !deny {
		t.Fatalf("expected deny found, got deny=%v ok=%v", deny, ok)
	}
}

func TestShortCircuit_NoDenyFound(t *testing.T) {
	matches := []policy.ConditionalPolicyRule{r(policy.Allow, 1), r(policy.Allow, 5)}
	deny, ok := ShortCircuit(matches)
	if ok {
		t.Fatalf("expected ok=false when no deny present, got deny=%v ok=%v", deny, ok)
	}
}
