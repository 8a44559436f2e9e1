package middleware

import (
	"time"

	"github.com/lestrrat-go/deeplink"
	"github.com/sirupsen/logrus"
)

// AccessLog creates a middleware that logs every action it wraps, along
// with what the action asked the dispatcher to do.
func AccessLog(logger logrus.FieldLogger) Interface {
	return &accessLogBuilder{logger: logger}
}

type accessLogBuilder struct {
	logger logrus.FieldLogger
}

func (m *accessLogBuilder) Wrap(next deeplink.Action) deeplink.Action {
	return func(req *deeplink.Request) deeplink.Result {
		start := time.Now()
		res := next(req)

		fields := logrus.Fields{
			"route":    req.Route().Path(),
			"kind":     req.Route().Kind().String(),
			"result":   ResultName(res),
			"duration": time.Since(start),
		}
		if id := req.Session(); id != "" {
			fields["session"] = id
		}
		if v, ok := req.Variable(); ok {
			fields["variable"] = v
		}
		m.logger.WithFields(fields).Info("route action")
		return res
	}
}

// ResultName returns a short label for the variant of res.
func ResultName(res deeplink.Result) string {
	switch res.(type) {
	case nil:
		return "none"
	case deeplink.ShowResult:
		return "show"
	case deeplink.SegueResult:
		return "segue"
	case deeplink.RedirectResult:
		return "redirect"
	default:
		return "unknown"
	}
}
