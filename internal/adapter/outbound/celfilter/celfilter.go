// Package celfilter provides an optional CEL-based pre-filter that a
// caller can run before the simulator. It is not the core ABAC grammar —
// package expr remains the authority for PolicyRule.Condition — this
// package evaluates a single compiled CEL expression against a
// subject/resource/action triple, so a caller can decide whether to run
// the real evaluator at all. Package simulate does not call it. Read-only:
// it never mutates the subject, resource, or action it is given.
package celfilter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// evalTimeout bounds a single CEL evaluation so a pathological expression
// can't hang the simulator.
const evalTimeout = 2 * time.Second

// maxCostBudget caps CEL runtime cost per evaluation.
const maxCostBudget = 50_000

// Filter compiles and evaluates CEL boolean expressions against the
// subject/resource/action triple the simulator is about to run.
type Filter struct {
	env *cel.Env
}

// New builds a Filter with the simulator pre-filter environment: subject,
// resource, and action attribute variables, plus a request_time timestamp.
func New() (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("subject_id", cel.StringType),
		cel.Variable("subject_attrs", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("resource_id", cel.StringType),
		cel.Variable("resource_type", cel.StringType),
		cel.Variable("resource_attrs", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("action_name", cel.StringType),
		cel.Variable("request_time", cel.TimestampType),
	)
	if err != nil {
		return nil, fmt.Errorf("celfilter: building environment: %w", err)
	}
	return &Filter{env: env}, nil
}

// Compile parses and type-checks expression, returning a reusable program.
func (f *Filter) Compile(expression string) (cel.Program, error) {
	ast, issues := f.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("celfilter: compiling %q: %w", expression, issues.Err())
	}

	prg, err := f.env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
	)
	if err != nil {
		return nil, fmt.Errorf("celfilter: building program: %w", err)
	}
	return prg, nil
}

// Admits reports whether the subject/resource/action triple passes the
// compiled pre-filter expression. A false result lets the caller treat the
// request as Deny without consulting the real evaluator.
func (f *Filter) Admits(ctx context.Context, prg cel.Program, subject policy.Subject, resource policy.Resource, action policy.Action, now time.Time) (bool, error) {
	evalCtx, cancel := context.WithTimeout(ctx, evalTimeout)
	defer cancel()

	result, _, err := prg.ContextEval(evalCtx, activation(subject, resource, action, now))
	if err != nil {
		return false, fmt.Errorf("celfilter: evaluating: %w", err)
	}

	admitted, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("celfilter: expression did not return a boolean, got %T", result.Value())
	}
	return admitted, nil
}

func activation(subject policy.Subject, resource policy.Resource, action policy.Action, now time.Time) map[string]any {
	subjectAttrs := subject.Attributes
	if subjectAttrs == nil {
		subjectAttrs = map[string]any{}
	}
	resourceAttrs := resource.Attributes
	if resourceAttrs == nil {
		resourceAttrs = map[string]any{}
	}

	return map[string]any{
		"subject_id":     subject.ID,
		"subject_attrs":  subjectAttrs,
		"resource_id":    resource.ID,
		"resource_type":  resource.Type,
		"resource_attrs": resourceAttrs,
		"action_name":    action.Name,
		"request_time":   now,
	}
}
