package deeplink

import (
	"net/url"
	"sync"

	"github.com/lestrrat-go/trie/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Registry owns a route tree and evaluates component sequences against it.
// At most one evaluation runs at a time.
type Registry struct {
	arena *arena
	root  *Route

	config     Config
	logger     logrus.FieldLogger
	executor   Executor
	observers  []Observer
	registerer prometheus.Registerer
	metrics    *metrics
	gate       *gate

	navMu sync.RWMutex
	nav   Navigator
}

func New(options ...Option) *Registry {
	a, root := newRegistryArena()
	r := &Registry{
		arena:    a,
		root:     root,
		config:   DefaultConfig(),
		logger:   logrus.StandardLogger(),
		executor: SerialExecutor(),
	}
	for _, option := range options {
		option(r)
	}
	r.metrics = newMetrics(r.registerer)
	r.gate = newGate(r.config.GateTimeout.Std())
	return r
}

func (r *Registry) Config() Config {
	return r.config
}

// RouteVisitor receives every route of a registry along with its pattern.
type RouteVisitor interface {
	Visit(string, *Route)
}

type RouteVisitFunc func(string, *Route)

func (f RouteVisitFunc) Visit(s string, route *Route) {
	f(s, route)
}

// Register attaches the tree containing route below the registry root.
// route may be any route of a tree built with NewRoute; its top-level
// ancestor is what gets registered. The registration fails with a
// *DuplicateRouteError when a top-level route of the same name exists.
func (r *Registry) Register(route *Route) error {
	if route == nil {
		return ErrInvalidRoute
	}

	var src *arena
	for {
		src = route.arena.Load()
		if src == r.arena || src.master != noNode {
			return ErrAlreadyRegistered
		}
		r.arena.mu.Lock()
		src.mu.Lock()
		if route.arena.Load() == src {
			break
		}
		src.mu.Unlock()
		r.arena.mu.Unlock()
	}
	defer r.arena.mu.Unlock()
	defer src.mu.Unlock()

	top := route
	for top.parent != noNode {
		top = src.nodes[top.parent]
	}
	if !validName(top.name) || top.kind == KindVariable {
		return ErrInvalidRoute
	}
	if _, ok := r.root.byName[top.name]; ok {
		return &DuplicateRouteError{Name: top.name}
	}

	r.arena.adopt(src, top)
	r.logger.WithField("route", top.name).Debug("registered route")
	return nil
}

// Routes returns the top-level routes in registration order.
func (r *Registry) Routes() []*Route {
	return r.root.Children()
}

func (r *Registry) RouteByName(name string) *Route {
	return r.root.ChildNamed(name)
}

func (r *Registry) RoutesByKind(kind Kind) []*Route {
	return r.root.ChildrenOfKind(kind)
}

// RouteFor returns the top-level route described by d. It reports false
// unless exactly one route matches the descriptor's name.
func (r *Registry) RouteFor(d Descriptor) (*Route, bool) {
	matches := r.root.ChildrenNamed(d.RouteSpec().Name)
	if len(matches) != 1 {
		return nil, false
	}
	return matches[0], true
}

func (r *Registry) Resolve(components []string) Match {
	return r.root.Resolve(components)
}

// ResolveURL resolves the deep-link components of u. A URL that cannot be
// decomposed resolves to nothing.
func (r *Registry) ResolveURL(u *url.URL) Match {
	components, err := URLComponents(u)
	if err != nil {
		return Match{}
	}
	return r.Resolve(components)
}

// Lookup finds a route by its pattern, e.g. "item/<id>/edit". Any segment
// wrapped in angle brackets denotes the variable route at that level.
func (r *Registry) Lookup(pattern string) (*Route, bool) {
	pattern = normalizePattern(pattern)
	if pattern == "" {
		return nil, false
	}
	r.arena.mu.RLock()
	defer r.arena.mu.RUnlock()
	route, ok := r.arena.paths.Get(pattern)
	if !ok || route == nil {
		return nil, false
	}
	return route, true
}

type visit struct {
	pattern string
	route   *Route
}

// Walk calls v for every registered route.
func (r *Registry) Walk(v RouteVisitor) {
	var visits []visit
	r.arena.mu.RLock()
	trie.Walk(r.arena.paths.impl, trie.VisitFunc[string, *Route](func(n trie.Node[string, *Route], _ trie.VisitMetadata) bool {
		if route := n.Value(); route != nil {
			visits = append(visits, visit{pattern: r.arena.pathOf(route.id), route: route})
		}
		return true
	}))
	r.arena.mu.RUnlock()

	for _, vv := range visits {
		v.Visit(vv.pattern, vv.route)
	}
}

// Evaluate resolves components and, when they are handled, runs the
// actions of the matched routes in order on a background goroutine.
//
// It returns false without side effects when the components do not
// resolve, or when another evaluation is still in flight. When it returns
// true the completion set with WithCompletion is guaranteed to be called
// exactly once.
func (r *Registry) Evaluate(components []string, options ...EvaluateOption) bool {
	var o evaluateOptions
	for _, option := range options {
		option(&o)
	}
	return r.evaluate(components, o, 0)
}

// EvaluateSpecs evaluates the components described by ds.
func (r *Registry) EvaluateSpecs(ds []Descriptor, options ...EvaluateOption) bool {
	return r.Evaluate(ComponentsOf(ds...), options...)
}

// EvaluateURL evaluates the deep-link components of u. Unless a payload is
// given, u itself is threaded through the actions.
func (r *Registry) EvaluateURL(u *url.URL, options ...EvaluateOption) bool {
	components, err := URLComponents(u)
	if err != nil {
		r.logger.WithError(err).Debug("cannot evaluate url")
		return false
	}

	o := evaluateOptions{payload: u}
	for _, option := range options {
		option(&o)
	}
	return r.evaluate(components, o, 0)
}

func (r *Registry) EvaluateURLString(s string, options ...EvaluateOption) bool {
	u, err := parseURL(s)
	if err != nil {
		r.logger.WithError(err).Debug("cannot evaluate url")
		return false
	}
	return r.EvaluateURL(u, options...)
}

func (r *Registry) evaluate(components []string, o evaluateOptions, hops int) bool {
	m := r.Resolve(components)
	if !m.Handled() {
		r.metrics.evaluations.WithLabelValues(resultUnhandled).Inc()
		r.logger.WithField("components", components).Debug("no route handles components")
		return false
	}

	s := r.newSession(m, o, hops)
	ok, stale := r.gate.admit(s)
	if !ok {
		r.metrics.evaluations.WithLabelValues(resultBusy).Inc()
		s.log.Debug("already processing route, rejecting")
		r.emit(Event{Type: EventRejected, Components: m.Components, Payload: o.payload})
		return false
	}
	if stale != nil {
		r.metrics.aborts.WithLabelValues(abortTakeover).Inc()
		s.log.WithField("stale", stale.id).Warn("previous evaluation held the gate for too long, taking over")
	}

	r.metrics.evaluations.WithLabelValues(resultHandled).Inc()
	r.emit(Event{
		Type:       EventWillEvaluate,
		Session:    s.id,
		Components: m.Components,
		Payload:    s.payload,
		Animated:   s.animated,
	})
	go s.run()
	return true
}

// Processing reports whether an evaluation holds the admission gate. The
// answer can be stale by the time it is read; use WithCompletion to learn
// when an evaluation has finished.
func (r *Registry) Processing() bool {
	return r.gate.busy()
}

func (r *Registry) SetNavigator(nav Navigator) {
	r.navMu.Lock()
	r.nav = nav
	r.navMu.Unlock()
}

func (r *Registry) Navigator() Navigator {
	r.navMu.RLock()
	defer r.navMu.RUnlock()
	return r.nav
}

// SyncNavigator runs the action of every top-level Fixed route and appends
// the resulting targets to those of the navigator, which must implement
// TabNavigator. It returns the number of targets added.
func (r *Registry) SyncNavigator() int {
	nav, ok := r.Navigator().(TabNavigator)
	if !ok {
		return 0
	}

	var targets []Target
	for _, route := range r.RoutesByKind(KindFixed) {
		route := route
		r.executor.Run(func() {
			if cached, ok := route.Cached(); ok {
				targets = append(targets, cached)
				return
			}
			h := route.handler()
			if h == nil {
				return
			}
			if v, ok := h(NewRequest(nil, route)).(ShowResult); ok && v.Target != nil {
				route.setCached(v.Target)
				targets = append(targets, v.Target)
			}
		})
	}
	if len(targets) == 0 {
		return 0
	}

	r.executor.Run(func() {
		nav.SetTargets(append(nav.Targets(), targets...), false)
	})
	return len(targets)
}

func (r *Registry) emit(e Event) {
	for _, o := range r.observers {
		o.OnEvent(e)
	}
}
