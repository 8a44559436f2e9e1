// Package middleware contains middlewares for deeplink route actions.
package middleware

import "github.com/lestrrat-go/deeplink"

type Interface = deeplink.Middleware
