package expr

import (
	"reflect"
	"strings"

	"github.com/sentrypolicy/authzcore/internal/domain/clock"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// Evaluator evaluates ABAC condition expressions against a
// subject and resource. The zero value is usable: it resolves attributes
// directly (no custom Provider) and reads request.time from the system
// clock.
type Evaluator struct {
	Resolver Resolver
	Clock    clock.Clock
}

// Evaluate reports whether condition holds for subject and resource. A
// missing/empty condition is always true. Malformed
// expressions, unresolvable attributes, and type-incompatible operands all
// evaluate to false — the evaluator never returns an error, matching the
// deny-by-default propagation the engine requires.
func (e Evaluator) Evaluate(condition string, subject policy.Subject, resource policy.Resource) bool {
	if strings.TrimSpace(condition) == "" {
		return true
	}
	tokens := tokenize(condition)
	if len(tokens) < 3 {
		return false
	}
	return e.evalTokens(tokens, subject, resource)
}

func (e Evaluator) evalTokens(tokens []token, subject policy.Subject, resource policy.Resource) bool {
	for i, t := range tokens {
		if t.quoted {
			continue
		}
		switch t.text {
		case ">=", "<=", ">", "<":
			return e.evalComparison(t.text, tokens[:i], tokens[i+1:], subject, resource)
		case "between":
			return e.evalBetween(tokens[:i], tokens[i+1:], subject, resource)
		case "startsWith", "endsWith":
			return e.evalStringOp(t.text, tokens[:i], tokens[i+1:], subject, resource)
		case "not":
			if i+1 < len(tokens) && !tokens[i+1].quoted && tokens[i+1].text == "contains" {
				return !e.evalMembership("contains", tokens[:i], tokens[i+2:], subject, resource)
			}
			if i+1 < len(tokens) && !tokens[i+1].quoted && tokens[i+1].text == "in" {
				return !e.evalMembership("in", tokens[:i], tokens[i+2:], subject, resource)
			}
			return false
		case "contains", "in":
			return e.evalMembership(t.text, tokens[:i], tokens[i+1:], subject, resource)
		case "==", "!=":
			return e.evalEquality(t.text, tokens[:i], tokens[i+1:], subject, resource)
		}
	}
	return false
}

func (e Evaluator) evalComparison(op string, leftToks, rightToks []token, subject policy.Subject, resource policy.Resource) bool {
	left, lok := e.resolveSingle(leftToks, subject, resource)
	right, rok := e.resolveSingle(rightToks, subject, resource)
	if !lok || !rok {
		return false
	}
	lf, lIsNum := asFloat(left)
	rf, rIsNum := asFloat(right)
	if lIsNum && rIsNum {
		switch op {
		case ">=":
			return lf >= rf
		case "<=":
			return lf <= rf
		case ">":
			return lf > rf
		case "<":
			return lf < rf
		}
	}
	ls, lIsStr := left.(string)
	rs, rIsStr := right.(string)
	if !lIsStr || !rIsStr {
		return false
	}
	switch op {
	case ">=":
		return ls >= rs
	case "<=":
		return ls <= rs
	case ">":
		return ls > rs
	case "<":
		return ls < rs
	}
	return false
}

func (e Evaluator) evalBetween(leftToks, rightToks []token, subject policy.Subject, resource policy.Resource) bool {
	andIdx := -1
	for i, t := range rightToks {
		if !t.quoted && t.text == "and" {
			andIdx = i
			break
		}
	}
	if andIdx < 0 {
		return false
	}
	v, vok := e.resolveSingle(leftToks, subject, resource)
	min, minOk := e.resolveSingle(rightToks[:andIdx], subject, resource)
	max, maxOk := e.resolveSingle(rightToks[andIdx+1:], subject, resource)
	if !vok || !minOk || !maxOk {
		return false
	}
	vf, vIsNum := asFloat(v)
	minf, minIsNum := asFloat(min)
	maxf, maxIsNum := asFloat(max)
	if !vIsNum || !minIsNum || !maxIsNum {
		return false
	}
	return minf <= vf && vf <= maxf
}

func (e Evaluator) evalStringOp(op string, leftToks, rightToks []token, subject policy.Subject, resource policy.Resource) bool {
	left, lok := e.resolveSingle(leftToks, subject, resource)
	right, rok := e.resolveSingle(rightToks, subject, resource)
	if !lok || !rok {
		return false
	}
	ls, lIsStr := left.(string)
	rs, rIsStr := right.(string)
	if !lIsStr || !rIsStr {
		return false
	}
	switch op {
	case "startsWith":
		return strings.HasPrefix(ls, rs)
	case "endsWith":
		return strings.HasSuffix(ls, rs)
	}
	return false
}

// evalMembership handles both "contains" (C contains X, left is the
// sequence) and "in" (X in C, right is the sequence).
func (e Evaluator) evalMembership(op string, leftToks, rightToks []token, subject policy.Subject, resource policy.Resource) bool {
	left, lok := e.resolveSingle(leftToks, subject, resource)
	right, rok := e.resolveSingle(rightToks, subject, resource)
	if !lok || !rok {
		return false
	}
	var seq, elem any
	switch op {
	case "contains":
		seq, elem = left, right
	case "in":
		seq, elem = right, left
	default:
		return false
	}
	return sequenceContains(seq, elem)
}

func (e Evaluator) evalEquality(op string, leftToks, rightToks []token, subject policy.Subject, resource policy.Resource) bool {
	left, lok := e.resolveSingle(leftToks, subject, resource)
	right, rok := e.resolveSingle(rightToks, subject, resource)
	if !lok || !rok {
		return false
	}
	eq := strictEqual(left, right)
	if op == "!=" {
		return !eq
	}
	return eq
}

func (e Evaluator) resolveSingle(toks []token, subject policy.Subject, resource policy.Resource) (any, bool) {
	if len(toks) != 1 {
		return nil, false
	}
	return e.resolveOperand(toks[0], subject, resource)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func strictEqual(a, b any) bool {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

// sequenceContains reports whether elem is a member of seq, which must be
// a slice or array; anything else is not a sequence.
func sequenceContains(seq, elem any) bool {
	v := reflect.ValueOf(seq)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i).Interface()
		if strictEqual(item, elem) {
			return true
		}
	}
	return false
}
