package deeplink

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Option configures a Registry.
type Option func(*Registry)

// WithConfig replaces the registry configuration. Zero fields fall back
// to DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(r *Registry) {
		r.config = cfg.withDefaults()
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithNavigator(nav Navigator) Option {
	return func(r *Registry) {
		r.nav = nav
	}
}

// WithExecutor sets the context actions run on. The default is
// SerialExecutor().
func WithExecutor(e Executor) Option {
	return func(r *Registry) {
		r.executor = e
	}
}

func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observers = append(r.observers, o)
	}
}

// WithRegisterer exports the registry metrics to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.registerer = reg
	}
}

// EvaluateOption configures a single evaluation.
type EvaluateOption func(*evaluateOptions)

type evaluateOptions struct {
	ctx        context.Context
	payload    any
	completion func(error)
	animated   *bool
}

// WithPayload sets the value threaded through the actions of the
// evaluation.
func WithPayload(payload any) EvaluateOption {
	return func(o *evaluateOptions) {
		o.payload = payload
	}
}

// WithCompletion sets a function called exactly once when an admitted
// evaluation, including any redirect it leads to, has finished. err is nil
// when every step ran.
func WithCompletion(fn func(err error)) EvaluateOption {
	return func(o *evaluateOptions) {
		o.completion = fn
	}
}

func WithAnimated(v bool) EvaluateOption {
	return func(o *evaluateOptions) {
		o.animated = &v
	}
}

// WithContext attaches ctx to every Request of the evaluation. Canceling
// ctx aborts the evaluation before its next step.
func WithContext(ctx context.Context) EvaluateOption {
	return func(o *evaluateOptions) {
		o.ctx = ctx
	}
}
