package middleware

import "github.com/lestrrat-go/deeplink"

// RestrictVariable returns a middleware that only lets the action run when
// the request carries a variable accepted by allow. Otherwise the action is
// skipped and the step yields no result.
func RestrictVariable(allow func(string) bool) Interface {
	return &restrictVariableBuilder{allow: allow}
}

type restrictVariableBuilder struct {
	allow func(string) bool
}

func (m *restrictVariableBuilder) Wrap(next deeplink.Action) deeplink.Action {
	return func(req *deeplink.Request) deeplink.Result {
		v, ok := req.Variable()
		if !ok || (m.allow != nil && !m.allow(v)) {
			return nil
		}
		return next(req)
	}
}
