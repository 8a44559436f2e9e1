package deeplink

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// session is one admitted evaluation: a resolved match whose actions run
// in order on the registry's executor, driven by a background goroutine.
type session struct {
	id         string
	reg        *Registry
	match      Match
	ctx        context.Context
	payload    any
	animated   bool
	completion func(error)
	hops       int
	log        logrus.FieldLogger

	abortErr  atomic.Error
	abortCh   chan struct{}
	abortOnce sync.Once
}

func (r *Registry) newSession(m Match, o evaluateOptions, hops int) *session {
	id := uuid.NewString()
	ctx := o.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	animated := r.config.Animated
	if o.animated != nil {
		animated = *o.animated
	}
	return &session{
		id:         id,
		reg:        r,
		match:      m,
		ctx:        ctx,
		payload:    o.payload,
		animated:   animated,
		completion: o.completion,
		hops:       hops,
		log: r.logger.WithFields(logrus.Fields{
			"session":    id,
			"components": strings.Join(m.Components, "/"),
		}),
		abortCh: make(chan struct{}),
	}
}

// abort asks the session to stop before its next step.
func (s *session) abort(err error) {
	s.abortOnce.Do(func() {
		s.abortErr.Store(err)
		close(s.abortCh)
	})
}

// interrupted reports why the session must stop, if it must.
func (s *session) interrupted() error {
	select {
	case <-s.abortCh:
		return s.abortErr.Load()
	case <-s.ctx.Done():
		s.reg.metrics.aborts.WithLabelValues(abortContext).Inc()
		return s.ctx.Err()
	default:
		return nil
	}
}

func (s *session) run() {
	reg := s.reg
	nav := reg.Navigator()
	if nav != nil {
		reg.executor.Run(func() {
			nav.DismissPresented(s.animated)
		})
	}

	for i, route := range s.match.Routes {
		if err := s.interrupted(); err != nil {
			s.finish(err)
			return
		}

		req := &Request{
			ctx:       s.ctx,
			session:   s.id,
			route:     route,
			Remaining: s.match.Remaining(i),
			Payload:   s.payload,
			Animated:  s.animated,
		}
		req.variable, req.hasVariable = s.match.Variable(i)

		log := s.log.WithFields(logrus.Fields{
			"route": route.name,
			"kind":  route.kind.String(),
		})
		if req.hasVariable {
			log = log.WithField("variable", req.variable)
		}
		log.Debug("processing route")

		t := newTransition()
		start := time.Now()
		var res Result
		var navigated bool
		reg.executor.Run(func() {
			res, navigated = s.step(nav, route, req, t)
		})
		s.payload = req.Payload
		reg.metrics.steps.WithLabelValues(route.kind.String()).Inc()

		if route.kind == KindRedirect {
			if rr, ok := res.(RedirectResult); ok && rr.Components != nil {
				reg.metrics.stepDuration.Observe(time.Since(start).Seconds())
				s.redirect(rr.Components)
				return
			}
		}

		var err error
		if navigated {
			err = s.wait(t)
		}
		reg.metrics.stepDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.finish(err)
			return
		}
		log.Debug("finished route")
	}
	s.finish(nil)
}

// step runs on the executor. It reports whether a transition was started,
// in which case the loop must wait on t.
func (s *session) step(nav Navigator, route *Route, req *Request, t *Transition) (Result, bool) {
	if route.kind == KindFixed {
		if cached, ok := route.Cached(); ok {
			return Show(cached), reuseFixed(nav, cached, req.Animated, t)
		}
	}

	h := route.handler()
	if h == nil {
		return nil, false
	}
	res := h(req)

	switch route.kind {
	case KindFixed:
		if v, ok := res.(ShowResult); ok && v.Target != nil {
			route.setCached(v.Target)
		}
	case KindPush:
		if v, ok := res.(ShowResult); ok && v.Target != nil && nav != nil {
			if nav.Push(v.Target, req.Animated, t) {
				s.emit(Event{Type: EventPushed, Route: route, Target: v.Target})
				return res, true
			}
		}
	case KindModal:
		if v, ok := res.(ShowResult); ok && v.Target != nil && nav != nil {
			if nav.Present(v.Target, req.Animated, t) {
				s.emit(Event{Type: EventPresented, Route: route, Target: v.Target})
				return res, true
			}
		}
	case KindSegue:
		if v, ok := res.(SegueResult); ok && v.Identifier != "" && nav != nil {
			if nav.PerformSegue(v.Identifier, req.Animated, t) {
				s.emit(Event{Type: EventSegue, Route: route, Identifier: v.Identifier})
				return res, true
			}
		}
	}
	return res, false
}

// reuseFixed brings a cached Fixed target forward instead of recreating it.
func reuseFixed(nav Navigator, cached Target, animated bool, t *Transition) bool {
	if nav == nil {
		return false
	}
	if sel, ok := nav.(Selector); ok {
		sel.Select(cached)
	}
	if st, ok := cached.(Stack); ok && st.Depth() > 1 {
		return st.PopToRoot(animated, t)
	}
	return false
}

func (s *session) wait(t *Transition) error {
	var timeout <-chan time.Time
	if d := s.reg.config.StepTimeout.Std(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-t.Done():
		return nil
	case <-s.abortCh:
		return s.abortErr.Load()
	case <-s.ctx.Done():
		s.reg.metrics.aborts.WithLabelValues(abortContext).Inc()
		return s.ctx.Err()
	case <-timeout:
		s.reg.metrics.aborts.WithLabelValues(abortTimeout).Inc()
		s.log.Warn("navigator did not finish the transition in time")
		return ErrStepTimeout
	}
}

// redirect ends the session and evaluates components in a new one, which
// inherits the payload and the completion.
func (s *session) redirect(components []string) {
	reg := s.reg
	reg.gate.release(s)
	reg.metrics.redirects.Inc()
	s.log.WithField("target", strings.Join(components, "/")).Debug("redirecting")
	s.emit(Event{Type: EventRedirected, Components: components, Payload: s.payload})

	if s.hops >= reg.config.MaxRedirects {
		s.complete(ErrTooManyRedirects)
		return
	}

	opts := evaluateOptions{
		ctx:        s.ctx,
		payload:    s.payload,
		completion: s.completion,
		animated:   &s.animated,
	}
	time.AfterFunc(reg.config.RedirectDelay.Std(), func() {
		if !reg.evaluate(components, opts, s.hops+1) {
			s.complete(ErrRedirectUnhandled)
		}
	})
}

func (s *session) finish(err error) {
	s.reg.gate.release(s)
	s.complete(err)
}

func (s *session) complete(err error) {
	switch {
	case err == nil:
		s.log.Debug("evaluation completed")
	case errors.Is(err, ErrAborted), errors.Is(err, context.Canceled):
		s.log.WithError(err).Info("evaluation aborted")
	default:
		s.log.WithError(err).Warn("evaluation failed")
	}
	s.emit(Event{Type: EventCompleted, Payload: s.payload, Err: err})
	if s.completion != nil {
		s.completion(err)
	}
}

func (s *session) emit(e Event) {
	e.Session = s.id
	if e.Components == nil {
		e.Components = s.match.Components
	}
	e.Animated = s.animated
	s.reg.emit(e)
}
