package memory

import (
	"context"
	"testing"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

func rule(subject, resource, action string, effect policy.Effect) policy.ConditionalPolicyRule {
	return policy.ConditionalPolicyRule{PolicyRule: policy.PolicyRule{
		Subject: subject, Resource: resource, Action: action, Effect: effect, Priority: policy.DefaultPriority,
	}}
}

func TestPolicyLoader_FallsBackToResourceIDThenTypeThenDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	loader := NewPolicyLoader()

	specific := policy.Policy{Name: "doc-42", Rules: []policy.ConditionalPolicyRule{rule("alice", "document:42", "read", policy.Allow)}}
	byType := policy.Policy{Name: "documents", Rules: []policy.ConditionalPolicyRule{rule("*", "document:*", "read", policy.Allow)}}
	fallback := policy.Policy{Name: "default", Rules: []policy.ConditionalPolicyRule{rule("*", "*", "*", policy.Deny)}}

	loader.Put("document:42", specific)
	loader.PutType("document", byType)
	loader.SetFallback(fallback)

	subject := policy.Subject{ID: "alice"}

	got, err := loader.GetPoliciesFor(ctx, subject, policy.Resource{ID: "document:42", Type: "document"})
	if err != nil || got.Name != "doc-42" {
		t.Fatalf("GetPoliciesFor(document:42) = %+v, %v; want doc-42 policy", got, err)
	}

	got, err = loader.GetPoliciesFor(ctx, subject, policy.Resource{ID: "document:99", Type: "document"})
	if err != nil || got.Name != "documents" {
		t.Fatalf("GetPoliciesFor(document:99) = %+v, %v; want type-level policy", got, err)
	}

	got, err = loader.GetPoliciesFor(ctx, subject, policy.Resource{ID: "folder:1", Type: "folder"})
	if err != nil || got.Name != "default" {
		t.Fatalf("GetPoliciesFor(folder:1) = %+v, %v; want fallback policy", got, err)
	}
}

func TestPolicyLoader_GetPoliciesForBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	loader := NewPolicyLoader()
	loader.Put("document:1", policy.Policy{Name: "doc-1"})

	subject := policy.Subject{ID: "alice"}
	resources := []policy.Resource{
		{ID: "document:1", Type: "document"},
		{ID: "document:2", Type: "document"},
	}

	got, err := loader.GetPoliciesForBatch(ctx, subject, resources)
	if err != nil {
		t.Fatalf("GetPoliciesForBatch() error: %v", err)
	}
	if len(got) != len(resources) {
		t.Fatalf("GetPoliciesForBatch() returned %d entries, want %d", len(got), len(resources))
	}
	if got["document:1"].Name != "doc-1" {
		t.Errorf("document:1 = %+v, want name doc-1", got["document:1"])
	}
	if got["document:2"].Name != "" {
		t.Errorf("document:2 = %+v, want empty fallback policy", got["document:2"])
	}
}

func TestPolicyLoader_ConcurrentReadsAndWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	loader := NewPolicyLoader()
	subject := policy.Subject{ID: "alice"}
	resource := policy.Resource{ID: "document:1", Type: "document"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			loader.Put("document:1", policy.Policy{Name: "rev"})
		}
	}()
	for i := 0; i < 100; i++ {
		if _, err := loader.GetPoliciesFor(ctx, subject, resource); err != nil {
			t.Fatalf("GetPoliciesFor() error: %v", err)
		}
	}
	<-done
}
