package deeplink

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// Route is one segment of a route tree: a named segment, a variable
// (wildcard) segment, or a control route such as a redirect.
//
// Routes are created with NewRoute and grown with AddRoute, AddVariable and
// friends. A tree becomes reachable for evaluation once any of its routes is
// passed to Registry.Register.
type Route struct {
	arena atomic.Pointer[arena]

	// guarded by the owning arena's lock
	id          NodeID
	parent      NodeID
	children    []NodeID
	byName      map[string]NodeID
	variable    NodeID
	middlewares []Middleware
	inherit     bool

	name   string
	kind   Kind
	action Action

	compileMu     sync.Mutex
	compiledArena *arena
	compiledGen   uint64
	compiled      Action

	cacheMu   sync.Mutex
	cached    Target
	hasCached bool
}

func newRoute(name string, kind Kind, action Action) *Route {
	return &Route{
		id:       noNode,
		parent:   noNode,
		variable: noNode,
		inherit:  true,
		name:     name,
		kind:     kind,
		action:   action,
	}
}

// NewRoute creates the root of a standalone route tree. The route is not
// evaluated until it (or any route of its tree) is registered.
func NewRoute(name string, kind Kind, action Action) *Route {
	r := newRoute(name, kind, action)
	a := newArena()
	a.mu.Lock()
	a.insert(r)
	a.paths.Put(a.pathOf(r.id), r)
	a.mu.Unlock()
	return r
}

// NewRouteSpec creates a standalone route from a typed descriptor.
func NewRouteSpec(d Descriptor, action Action) *Route {
	spec := d.RouteSpec()
	return NewRoute(spec.Name, spec.Kind, action)
}

// rlock read-locks the arena r currently lives in. The loop guards against
// the tree being moved into a registry between loading and locking.
func (r *Route) rlock() *arena {
	for {
		a := r.arena.Load()
		a.mu.RLock()
		if r.arena.Load() == a {
			return a
		}
		a.mu.RUnlock()
	}
}

func (r *Route) lock() *arena {
	for {
		a := r.arena.Load()
		a.mu.Lock()
		if r.arena.Load() == a {
			return a
		}
		a.mu.Unlock()
	}
}

func (r *Route) Name() string {
	return r.name
}

func (r *Route) Kind() Kind {
	return r.kind
}

// HasAction reports whether the route does anything when reached. Routes
// without an action are pure structure.
func (r *Route) HasAction() bool {
	return r.action != nil
}

func (r *Route) ID() NodeID {
	a := r.rlock()
	defer a.mu.RUnlock()
	return r.id
}

// Parent returns the route r was added to, or nil for a top-level route.
func (r *Route) Parent() *Route {
	a := r.rlock()
	defer a.mu.RUnlock()
	return a.route(r.parent)
}

// Path returns the pattern of r from its top-level ancestor, with variable
// segments spelled as VariableSegment.
func (r *Route) Path() string {
	a := r.rlock()
	defer a.mu.RUnlock()
	return a.pathOf(r.id)
}

func (r *Route) String() string {
	return fmt.Sprintf("%s (%s)", r.Path(), r.kind)
}

// Children returns the child routes in registration order.
func (r *Route) Children() []*Route {
	a := r.rlock()
	defer a.mu.RUnlock()
	return a.collect(r.children, nil)
}

func (r *Route) ChildrenNamed(name string) []*Route {
	a := r.rlock()
	defer a.mu.RUnlock()
	return a.collect(r.children, func(n *Route) bool {
		return n.kind != KindVariable && n.name == name
	})
}

func (r *Route) ChildNamed(name string) *Route {
	a := r.rlock()
	defer a.mu.RUnlock()
	if id, ok := r.byName[name]; ok {
		return a.nodes[id]
	}
	return nil
}

func (r *Route) ChildrenOfKind(kind Kind) []*Route {
	a := r.rlock()
	defer a.mu.RUnlock()
	return a.collect(r.children, func(n *Route) bool {
		return n.kind == kind
	})
}

func (r *Route) ChildOfKind(kind Kind) *Route {
	a := r.rlock()
	defer a.mu.RUnlock()
	if kind == KindVariable {
		if r.variable == noNode {
			return nil
		}
		return a.nodes[r.variable]
	}
	for _, id := range r.children {
		if n := a.nodes[id]; n.kind == kind {
			return n
		}
	}
	return nil
}

// AddRoute adds a named child route. It fails with a *DuplicateRouteError
// when r already has a child with the same name.
func (r *Route) AddRoute(name string, kind Kind, action Action) (*Route, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q is not a valid route name", ErrInvalidRoute, name)
	}
	if kind == KindVariable {
		return nil, fmt.Errorf("%w: use AddVariable to add variable routes", ErrInvalidRoute)
	}

	a := r.lock()
	defer a.mu.Unlock()
	if _, ok := r.byName[name]; ok {
		return nil, &DuplicateRouteError{Parent: a.pathOf(r.id), Name: name}
	}
	child := newRoute(name, kind, action)
	a.attach(r, child)
	return child, nil
}

// AddVariable adds the variable child of r. A route can have at most one.
func (r *Route) AddVariable(action Action) (*Route, error) {
	a := r.lock()
	defer a.mu.Unlock()
	if r.variable != noNode {
		return nil, &DuplicateRouteError{Parent: a.pathOf(r.id), Variable: true}
	}
	child := newRoute("", KindVariable, action)
	a.attach(r, child)
	return child, nil
}

// CopyRoute adds a child with the name, kind and action of other. The
// children of other are not copied. Variable routes cannot be copied.
func (r *Route) CopyRoute(other *Route) (*Route, error) {
	if other == nil || other.kind == KindVariable || other.name == "" {
		return nil, fmt.Errorf("%w: only named routes can be copied", ErrInvalidRoute)
	}
	return r.AddRoute(other.name, other.kind, other.action)
}

// AddSpec adds a child described by d: a variable when d describes one, a
// named route otherwise.
func (r *Route) AddSpec(d Descriptor, action Action) (*Route, error) {
	spec := d.RouteSpec()
	if spec.Kind == KindVariable {
		return r.AddVariable(action)
	}
	return r.AddRoute(spec.Name, spec.Kind, action)
}

// Route is the chaining form of AddRoute. It panics instead of returning
// an error.
func (r *Route) Route(name string, kind Kind, action Action) *Route {
	child, err := r.AddRoute(name, kind, action)
	if err != nil {
		panic(err)
	}
	return child
}

// Variable is the chaining form of AddVariable. It panics instead of
// returning an error.
func (r *Route) Variable(action Action) *Route {
	child, err := r.AddVariable(action)
	if err != nil {
		panic(err)
	}
	return child
}

// Spec is the chaining form of AddSpec. It panics instead of returning an
// error.
func (r *Route) Spec(d Descriptor, action Action) *Route {
	child, err := r.AddSpec(d, action)
	if err != nil {
		panic(err)
	}
	return child
}

// Resolve matches components against the children of r.
func (r *Route) Resolve(components []string) Match {
	a := r.rlock()
	defer a.mu.RUnlock()
	return a.resolve(r.id, components)
}

// Use appends middlewares wrapping the action of r and, unless they opt
// out, the actions of its descendants.
func (r *Route) Use(middlewares ...Middleware) *Route {
	a := r.lock()
	r.middlewares = append(r.middlewares, middlewares...)
	a.generation.Inc()
	a.mu.Unlock()
	return r
}

// Inherit specifies whether the middlewares of the ancestors of r apply
// to its action.
func (r *Route) Inherit(v bool) *Route {
	a := r.lock()
	r.inherit = v
	a.generation.Inc()
	a.mu.Unlock()
	return r
}

// handler returns the action of r wrapped in its middlewares, or nil when
// r has no action.
func (r *Route) handler() Action {
	if r.action == nil {
		return nil
	}

	r.compileMu.Lock()
	defer r.compileMu.Unlock()

	a := r.rlock()
	gen := a.generation.Load()
	if r.compiled != nil && r.compiledArena == a && r.compiledGen == gen {
		a.mu.RUnlock()
		return r.compiled
	}

	// innermost first: r's own middlewares, then each ancestor's
	layers := [][]Middleware{r.middlewares}
	if r.inherit {
		for id := r.parent; id != noNode; id = a.nodes[id].parent {
			layers = append(layers, a.nodes[id].middlewares)
		}
	}
	a.mu.RUnlock()

	h := r.action
	for _, mws := range layers {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i].Wrap(h)
		}
	}
	r.compiled = h
	r.compiledArena = a
	r.compiledGen = gen
	return h
}

// Cached returns the target remembered by a Fixed route.
func (r *Route) Cached() (Target, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	return r.cached, r.hasCached
}

func (r *Route) setCached(t Target) {
	r.cacheMu.Lock()
	r.cached = t
	r.hasCached = true
	r.cacheMu.Unlock()
}

// ClearCache forgets the target remembered by a Fixed route, so that the
// next evaluation invokes its action again.
func (r *Route) ClearCache() {
	r.cacheMu.Lock()
	r.cached = nil
	r.hasCached = false
	r.cacheMu.Unlock()
}
