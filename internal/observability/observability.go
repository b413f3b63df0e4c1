// Package observability wraps the authorization core with OpenTelemetry
// tracing and metrics. It never participates in the access decision
// itself — every method here delegates to Next and only annotates the
// surrounding span/counters, so wrapping or unwrapping a Decider never
// changes Evaluate's result.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// Decider is the minimal interface traced: a policy, a subject/resource/
// action triple in, an Effect out. evaluate.Evaluator satisfies this
// without modification; delegation.Evaluator does not, since its Evaluate
// also takes a context and returns an error.
type Decider interface {
	Evaluate(pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) policy.Effect
}

// TracedEvaluator decorates a Decider with a span per call plus decision
// and latency metrics.
type TracedEvaluator struct {
	Next   Decider
	tracer trace.Tracer

	decisions metric.Int64Counter
	duration  metric.Float64Histogram
}

// Wrap builds a TracedEvaluator around next, instrumented with tp and mp.
// Either provider may be the respective package's no-op implementation.
func Wrap(next Decider, tp trace.TracerProvider, mp metric.MeterProvider) (*TracedEvaluator, error) {
	meter := mp.Meter("github.com/sentrypolicy/authzcore")

	decisions, err := meter.Int64Counter("authzcore.decisions",
		metric.WithDescription("Authorization decisions by resolved effect"))
	if err != nil {
		return nil, fmt.Errorf("observability: building decisions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("authzcore.evaluate.duration",
		metric.WithDescription("Evaluate call latency in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("observability: building duration histogram: %w", err)
	}

	return &TracedEvaluator{
		Next:      next,
		tracer:    tp.Tracer("github.com/sentrypolicy/authzcore"),
		decisions: decisions,
		duration:  duration,
	}, nil
}

// Evaluate starts a span named "authzcore.evaluate", delegates to Next,
// and records the resolved effect and elapsed time before returning.
func (t *TracedEvaluator) Evaluate(ctx context.Context, pol policy.Policy, subject policy.Subject, resource policy.Resource, action policy.Action) policy.Effect {
	ctx, span := t.tracer.Start(ctx, "authzcore.evaluate")
	defer span.End()

	start := time.Now()
	effect := t.Next.Evaluate(pol, subject, resource, action)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("authzcore.subject_id", subject.ID),
		attribute.String("authzcore.resource_id", resource.ID),
		attribute.String("authzcore.action", action.Name),
		attribute.String("authzcore.effect", string(effect)),
	)

	attrs := metric.WithAttributes(attribute.String("effect", string(effect)))
	t.decisions.Add(ctx, 1, attrs)
	t.duration.Record(ctx, elapsed.Seconds())

	return effect
}
