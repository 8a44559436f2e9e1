package middleware

import (
	"github.com/lestrrat-go/deeplink"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "github.com/lestrrat-go/deeplink"

type tracingConfig struct {
	tracerName string
	provider   trace.TracerProvider
	attributes func(*deeplink.Request) []attribute.KeyValue
}

// TracingOption configures the Tracing middleware.
type TracingOption func(*tracingConfig)

func WithTracerName(name string) TracingOption {
	return func(c *tracingConfig) {
		c.tracerName = name
	}
}

// WithTracerProvider sets the provider spans are created from. The default
// is the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *tracingConfig) {
		c.provider = tp
	}
}

// WithAttributes adds the attributes returned by fn to every span.
func WithAttributes(fn func(*deeplink.Request) []attribute.KeyValue) TracingOption {
	return func(c *tracingConfig) {
		c.attributes = fn
	}
}

// Tracing creates a middleware that wraps each action in an OpenTelemetry
// span. The span context replaces the request context for the action.
func Tracing(options ...TracingOption) Interface {
	cfg := tracingConfig{tracerName: defaultTracerName}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetTracerProvider()
	}
	return &tracingBuilder{
		tracer:     cfg.provider.Tracer(cfg.tracerName),
		attributes: cfg.attributes,
	}
}

type tracingBuilder struct {
	tracer     trace.Tracer
	attributes func(*deeplink.Request) []attribute.KeyValue
}

func (m *tracingBuilder) Wrap(next deeplink.Action) deeplink.Action {
	return func(req *deeplink.Request) deeplink.Result {
		route := req.Route()
		attrs := []attribute.KeyValue{
			attribute.String("deeplink.route", route.Path()),
			attribute.String("deeplink.kind", route.Kind().String()),
		}
		if id := req.Session(); id != "" {
			attrs = append(attrs, attribute.String("deeplink.session", id))
		}
		if v, ok := req.Variable(); ok {
			attrs = append(attrs, attribute.String("deeplink.variable", v))
		}
		if m.attributes != nil {
			attrs = append(attrs, m.attributes(req)...)
		}

		ctx, span := m.tracer.Start(req.Context(), "deeplink."+route.Kind().String(),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		req.SetContext(ctx)
		res := next(req)
		span.SetAttributes(attribute.String("deeplink.result", ResultName(res)))
		return res
	}
}
