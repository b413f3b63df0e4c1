package cmd

import (
	"fmt"
	"strings"

	"github.com/sentrypolicy/authzcore/internal/domain/expr"
	"github.com/sentrypolicy/authzcore/internal/domain/matcher"
	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// parseAttrs turns a list of "key=value" flag values into an attribute
// map. Values are kept as strings; package expr does not convert them, so
// numeric comparisons (>=, between, ...) against such an attribute are false.
func parseAttrs(kvs []string) (map[string]policy.AttributeValue, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	out := make(map[string]policy.AttributeValue, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid attribute %q: want key=value", kv)
		}
		out[k] = v
	}
	return out, nil
}

// resolveMatcher builds the matcher named by name, returning an error for
// any name other than acl, rbac, abac, or restful. RESTful falls back to
// ACL for non-HTTP actions. ABAC
// wires in a zero-value expr.Evaluator (system clock, direct attribute
// resolution) since the CLI has no custom Resolver to inject.
func resolveMatcher(name string) (matcher.Matcher, error) {
	switch matcher.Strategy(name) {
	case matcher.StrategyACL, matcher.StrategyRBAC, matcher.StrategyABAC, matcher.StrategyRESTful:
		return matcher.New(matcher.Strategy(name), expr.Evaluator{}, matcher.ACL{}), nil
	default:
		return nil, fmt.Errorf("unknown matcher %q: want one of acl, rbac, abac, restful", name)
	}
}
