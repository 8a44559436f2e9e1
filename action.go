package deeplink

import "context"

// Target is whatever a navigator knows how to show: a screen, a view
// model, a page identifier.
type Target = any

// Action is bound to a route and invoked when the route is reached during
// an evaluation. Its Result tells the dispatcher what to do next,
// according to the kind of the route it is bound to.
type Action func(req *Request) Result

// Request is the per-step input handed to an Action.
//
// Payload is shared by every step of an evaluation: an action may replace
// it, and whatever value it holds when the action returns is what the
// following step receives.
type Request struct {
	ctx         context.Context
	session     string
	route       *Route
	variable    string
	hasVariable bool

	// Remaining holds the components following the current one.
	Remaining []string
	Payload   any
	Animated  bool
}

// NewRequest creates a Request for invoking an action outside of an
// evaluation, which is mostly useful in tests.
func NewRequest(ctx context.Context, route *Route) *Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Request{ctx: ctx, route: route}
}

// WithVariable returns the request with its variable value set.
func (r *Request) WithVariable(v string) *Request {
	r.variable = v
	r.hasVariable = true
	return r
}

func (r *Request) Context() context.Context {
	return r.ctx
}

// SetContext replaces the context seen by the rest of the step, which is
// how middlewares hand values down to the action.
func (r *Request) SetContext(ctx context.Context) {
	r.ctx = ctx
}

// Session returns the ID of the evaluation the request belongs to, or ""
// outside of an evaluation.
func (r *Request) Session() string {
	return r.session
}

// Route returns the route whose action is being invoked.
func (r *Request) Route() *Route {
	return r.route
}

// Variable returns the wildcard value bound to this step. It is set for
// variable routes and for routes immediately followed by a variable route.
func (r *Request) Variable() (string, bool) {
	return r.variable, r.hasVariable
}

// Result is the value returned by an Action. A nil Result means the action
// has nothing for the dispatcher to act on.
//
// The concrete types are ShowResult, SegueResult and RedirectResult.
type Result interface {
	result()
}

// ShowResult carries a navigation target. Fixed routes cache it; Push and
// Modal routes hand it to the navigator.
type ShowResult struct {
	Target Target
}

// SegueResult names a transition for Segue routes.
type SegueResult struct {
	Identifier string
}

// RedirectResult carries the components a Redirect route wants evaluated
// instead of the remainder of the current chain.
type RedirectResult struct {
	Components []string
}

func (ShowResult) result()     {}
func (SegueResult) result()    {}
func (RedirectResult) result() {}

func Show(target Target) Result {
	return ShowResult{Target: target}
}

func SegueTo(identifier string) Result {
	return SegueResult{Identifier: identifier}
}

func RedirectTo(components ...string) Result {
	return RedirectResult{Components: components}
}
