package deeplink

// Match is the outcome of resolving components against a route tree.
// Routes[i] is the route that components[i] resolved to; when resolution
// stops early Routes is shorter than Components.
type Match struct {
	Components []string
	Routes     []*Route
}

// resolve walks from start, one component at a time. A child with the
// component's name always wins over the variable child, and a branch once
// taken is never revisited. a.mu must be held.
func (a *arena) resolve(start NodeID, components []string) Match {
	m := Match{Components: append([]string(nil), components...)}
	current := a.nodes[start]
	for _, c := range components {
		var next *Route
		if id, ok := current.byName[c]; ok {
			next = a.nodes[id]
		} else if current.variable != noNode {
			next = a.nodes[current.variable]
		} else {
			break
		}
		m.Routes = append(m.Routes, next)
		current = next
	}
	return m
}

// Valid reports whether every component resolved to a route. An empty
// match is never valid.
func (m Match) Valid() bool {
	return len(m.Routes) > 0 && len(m.Routes) == len(m.Components)
}

// IsRedirect reports whether the last resolved route is a redirect. Such a
// match is evaluated even when trailing components did not resolve, since
// the redirect consumes them.
func (m Match) IsRedirect() bool {
	if l := len(m.Routes); l > 0 {
		return m.Routes[l-1].kind == KindRedirect
	}
	return false
}

// Handled reports whether the match would be evaluated.
func (m Match) Handled() bool {
	return m.Valid() || m.IsRedirect()
}

// Last returns the deepest resolved route, or nil.
func (m Match) Last() *Route {
	if l := len(m.Routes); l > 0 {
		return m.Routes[l-1]
	}
	return nil
}

// Variable returns the wildcard value passed to step i. A variable route
// receives its own component; a route immediately followed by a variable
// route receives the component of that variable. Partial matches bind no
// variables.
func (m Match) Variable(i int) (string, bool) {
	if len(m.Routes) != len(m.Components) || i < 0 || i >= len(m.Routes) {
		return "", false
	}
	if m.Routes[i].kind == KindVariable {
		return m.Components[i], true
	}
	if i+1 < len(m.Routes) && m.Routes[i+1].kind == KindVariable {
		return m.Components[i+1], true
	}
	return "", false
}

// Remaining returns the components after step i.
func (m Match) Remaining(i int) []string {
	if i+1 >= len(m.Components) {
		return []string{}
	}
	return append([]string(nil), m.Components[i+1:]...)
}
