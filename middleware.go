package deeplink

// Middleware wraps the action of a route. Middlewares registered on a route
// with Use also apply to its descendants unless they opt out with Inherit.
type Middleware interface {
	Wrap(Action) Action
}

type MiddlewareFunc func(Action) Action

func (f MiddlewareFunc) Wrap(next Action) Action {
	return f(next)
}
