package expr

import (
	"strconv"
	"testing"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func TestEvaluate_EmptyConditionIsAlwaysTrue(t *testing.T) {
	e := Evaluator{}
	if !e.Evaluate("", policy.Subject{}, policy.Resource{}) {
		t.Fatal("expected empty condition to be true")
	}
	if !e.Evaluate("   ", policy.Subject{}, policy.Resource{}) {
		t.Fatal("expected whitespace-only condition to be true")
	}
}

func TestEvaluate_MalformedConditionIsFalse(t *testing.T) {
	e := Evaluator{}
	cases := []string{
		"subject.age",
		"subject.age ~ 5",
		"subject.age >=",
	}
	for _, c := range cases {
		if e.Evaluate(c, policy.Subject{}, policy.Resource{}) {
			t.Errorf("expected malformed condition %q to evaluate false", c)
		}
	}
}

func TestEvaluate_NumericComparisons(t *testing.T) {
	e := Evaluator{}
	subject := policy.Subject{Attributes: map[string]policy.AttributeValue{"age": int64(30)}}

	cases := []struct {
		cond string
		want bool
	}{
		{"subject.age >= 18", true},
		{"subject.age >= 31", false},
		{"subject.age <= 30", true},
		{"subject.age < 30", false},
		{"subject.age > 29", true},
	}
	for _, c := range cases {
		if got := e.Evaluate(c.cond, subject, policy.Resource{}); got != c.want {
			t.Errorf("%q: got %v, want %v", c.cond, got, c.want)
		}
	}
}

func TestEvaluate_Between(t *testing.T) {
	e := Evaluator{}
	subject := policy.Subject{Attributes: map[string]policy.AttributeValue{"age": int64(25)}}

	if !e.Evaluate("subject.age between 18 and 65", subject, policy.Resource{}) {
		t.Fatal("expected 25 to be between 18 and 65")
	}
	if e.Evaluate("subject.age between 30 and 65", subject, policy.Resource{}) {
		t.Fatal("expected 25 to not be between 30 and 65")
	}
}

func TestEvaluate_StartsEndsWith(t *testing.T) {
	e := Evaluator{}
	resource := policy.Resource{Attributes: map[string]policy.AttributeValue{"owner": "team-alpha"}}

	if !e.Evaluate("resource.owner startsWith \"team-\"", policy.Subject{}, resource) {
		t.Fatal("expected startsWith to match")
	}
	if !e.Evaluate("resource.owner endsWith \"alpha\"", policy.Subject{}, resource) {
		t.Fatal("expected endsWith to match")
	}
	if e.Evaluate("resource.owner startsWith \"beta-\"", policy.Subject{}, resource) {
		t.Fatal("expected startsWith mismatch to fail")
	}
}

func TestEvaluate_ContainsAndIn(t *testing.T) {
	e := Evaluator{}
	subject := policy.Subject{Attributes: map[string]policy.AttributeValue{
		"groups": []string{"eng", "ops"},
	}}

	if !e.Evaluate("subject.groups contains \"eng\"", subject, policy.Resource{}) {
		t.Fatal("expected contains to match")
	}
	if e.Evaluate("subject.groups contains \"sales\"", subject, policy.Resource{}) {
		t.Fatal("expected contains mismatch to fail")
	}
	if !e.Evaluate("\"eng\" in subject.groups", subject, policy.Resource{}) {
		t.Fatal("expected in to match")
	}
}

func TestEvaluate_NotContainsAndNotIn(t *testing.T) {
	e := Evaluator{}
	subject := policy.Subject{Attributes: map[string]policy.AttributeValue{
		"groups": []string{"eng", "ops"},
	}}

	if !e.Evaluate("subject.groups not contains \"sales\"", subject, policy.Resource{}) {
		t.Fatal("expected 'not contains' to be true for absent element")
	}
	if e.Evaluate("subject.groups not contains \"eng\"", subject, policy.Resource{}) {
		t.Fatal("expected 'not contains' to be false for present element")
	}
	if !e.Evaluate("\"sales\" not in subject.groups", subject, policy.Resource{}) {
		t.Fatal("expected 'not in' to be true for absent element")
	}
}

func TestEvaluate_ContainsIsNotSplitOnEmbeddedIn(t *testing.T) {
	// "contains" lexically contains "in" as a substring; the evaluator must
	// scan whole tokens, never substrings, so this must be parsed as a
	// membership test, not mis-split on an embedded "in".
	e := Evaluator{}
	subject := policy.Subject{Attributes: map[string]policy.AttributeValue{"tags": []string{"x"}}}
	if !e.Evaluate("subject.tags contains \"x\"", subject, policy.Resource{}) {
		t.Fatal("expected whole-token 'contains' to be recognized correctly")
	}
}

func TestEvaluate_Equality(t *testing.T) {
	e := Evaluator{}
	subject := policy.Subject{Attributes: map[string]policy.AttributeValue{"dept": "eng"}}

	if !e.Evaluate("subject.dept == \"eng\"", subject, policy.Resource{}) {
		t.Fatal("expected equality match")
	}
	if !e.Evaluate("subject.dept != \"sales\"", subject, policy.Resource{}) {
		t.Fatal("expected inequality match")
	}
}

func TestEvaluate_RequestTimeUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := Evaluator{Clock: fixedClock{t: fixed}}
	cond := "request.time >= " + timeUnixString(fixed.Add(-time.Hour))
	if !e.Evaluate(cond, policy.Subject{}, policy.Resource{}) {
		t.Fatal("expected request.time comparison against injected clock to hold")
	}
}

func TestEvaluate_UnresolvableAttributeIsFalse(t *testing.T) {
	e := Evaluator{}
	subject := policy.Subject{}
	if e.Evaluate("subject.missing == \"x\"", subject, policy.Resource{}) {
		t.Fatal("expected missing attribute lookup to evaluate false")
	}
}

func timeUnixString(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
