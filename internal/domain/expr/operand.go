package expr

import (
	"strconv"
	"strings"

	"github.com/sentrypolicy/authzcore/internal/domain/clock"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// resolveOperand dispatches a single token to its value:
// subject.<attr>/resource.<attr> trigger attribute lookup, request.time
// reads the clock, true/false become booleans, all-numeric tokens become
// int64 or float64, and everything else — including every quoted token —
// is a literal string. ok is false only when an attribute lookup misses.
func (e Evaluator) resolveOperand(t token, subject policy.Subject, resource policy.Resource) (any, bool) {
	if t.quoted {
		return t.text, true
	}
	switch {
	case t.text == "true":
		return true, true
	case t.text == "false":
		return false, true
	case t.text == "request.time":
		clk := e.Clock
		if clk == nil {
			clk = clock.System{}
		}
		return clk.Now().Unix(), true
	case strings.HasPrefix(t.text, "subject."):
		return e.Resolver.Resolve(subject, strings.TrimPrefix(t.text, "subject."))
	case strings.HasPrefix(t.text, "resource."):
		return e.Resolver.Resolve(resource, strings.TrimPrefix(t.text, "resource."))
	default:
		if n, ok := asNumber(t.text); ok {
			return n, true
		}
		return t.text, true
	}
}

// asNumber parses an all-numeric token into int64 or float64.
func asNumber(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}
