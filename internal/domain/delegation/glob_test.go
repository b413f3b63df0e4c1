package delegation

import "testing"

func TestGlobMatch_LiteralAndStar(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{"doc:1", "doc:1", true},
		{"doc:1", "doc:2", false},
		{"doc:*", "doc:42", true},
		{"*", "anything", true},
		{"*", "", true},
		{"doc:*/comments", "doc:42/comments", true},
		{"doc:*/comments", "doc:42/other", false},
	}
	for _, c := range cases {
		if got := globMatch(c.pattern, c.s); got != c.want {
			t.Errorf("globMatch(%q, %q) = %v, want %v", c.pattern, c.s, got, c.want)
		}
	}
}

func TestGlobMatch_QuestionMark(t *testing.T) {
	if !globMatch("doc:?", "doc:1") {
		t.Error("expected ? to match exactly one character")
	}
	if globMatch("doc:?", "doc:12") {
		t.Error("expected ? to not match two characters")
	}
	if globMatch("doc:?", "doc:") {
		t.Error("expected ? to require exactly one character, not zero")
	}
}

func TestGlobMatch_CharacterClass(t *testing.T) {
	if !globMatch("doc:[0-9]", "doc:5") {
		t.Error("expected [0-9] to match a digit")
	}
	if globMatch("doc:[0-9]", "doc:a") {
		t.Error("expected [0-9] to reject a letter")
	}
	if !globMatch("doc:[abc]", "doc:b") {
		t.Error("expected [abc] to match a listed character")
	}
}

func TestGlobMatch_NegatedCharacterClass(t *testing.T) {
	if globMatch("doc:[!0-9]", "doc:5") {
		t.Error("expected negated class to reject a digit")
	}
	if !globMatch("doc:[!0-9]", "doc:a") {
		t.Error("expected negated class to accept a non-digit")
	}
	if !globMatch("doc:[^0-9]", "doc:a") {
		t.Error("expected ^ negation to behave like ! negation")
	}
}

func TestGlobMatch_MalformedClassFails(t *testing.T) {
	if globMatch("doc:[0-9", "doc:5") {
		t.Error("expected unterminated character class to never match")
	}
}

func TestGlobMatch_CaseSensitive(t *testing.T) {
	if globMatch("Doc:1", "doc:1") {
		t.Error("expected glob matching to be case-sensitive")
	}
}

func TestGlobMatch_Anchored(t *testing.T) {
	if globMatch("doc:1", "prefix-doc:1-suffix") {
		t.Error("expected glob matching to be anchored to the full string")
	}
}
