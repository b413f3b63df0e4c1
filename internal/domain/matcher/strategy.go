package matcher

import "github.com/sentrypolicy/authzcore/internal/domain/expr"

// Strategy names one of the four selectable matcher variants, for use in
// engine configuration.
type Strategy string

const (
	StrategyACL      Strategy = "acl"
	StrategyRBAC     Strategy = "rbac"
	StrategyABAC     Strategy = "abac"
	StrategyRESTful  Strategy = "restful"
)

// New builds the Matcher named by strategy. evaluator is only used by
// StrategyABAC; fallback is only used by StrategyRESTful (defaulting to
// ACL when nil).
func New(strategy Strategy, evaluator expr.Evaluator, fallback Matcher) Matcher {
	switch strategy {
	case StrategyRBAC:
		return RBAC{}
	case StrategyABAC:
		return ABAC{Evaluator: evaluator}
	case StrategyRESTful:
		return NewRESTful(fallback)
	default:
		return ACL{}
	}
}
