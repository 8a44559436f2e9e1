package deeplink

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRoute is matched by every *DuplicateRouteError via errors.Is.
	ErrDuplicateRoute = errors.New("deeplink: duplicate route")

	// ErrInvalidRoute is returned when a route cannot be attached where it
	// was requested: an empty name, a variable added by name, or a variable
	// used as a top-level route.
	ErrInvalidRoute = errors.New("deeplink: invalid route")

	// ErrAlreadyRegistered is returned by Register when the route's tree is
	// already attached to a registry.
	ErrAlreadyRegistered = errors.New("deeplink: route is already registered")

	// ErrAborted is passed to the completion of a session that was stopped
	// before running all of its steps.
	ErrAborted = errors.New("deeplink: evaluation aborted")

	// ErrStepTimeout is passed to the completion when a navigator never
	// finished a transition within Config.StepTimeout.
	ErrStepTimeout = errors.New("deeplink: timed out waiting for transition")

	// ErrRedirectUnhandled is passed to the completion when the components
	// returned by a redirect could not be evaluated.
	ErrRedirectUnhandled = errors.New("deeplink: redirect target was not handled")

	// ErrTooManyRedirects is passed to the completion when a chain of
	// redirects exceeds Config.MaxRedirects.
	ErrTooManyRedirects = errors.New("deeplink: too many redirects")
)

// DuplicateRouteError reports an attempt to register a second route with
// the same name, or a second variable, under one parent. The tree is left
// untouched when this error is returned.
type DuplicateRouteError struct {
	Parent   string // path of the parent route, "" for the top level
	Name     string // conflicting name, "" when Variable is set
	Variable bool
}

func (e *DuplicateRouteError) Error() string {
	parent := e.Parent
	if parent == "" {
		parent = "<root>"
	}
	if e.Variable {
		return fmt.Sprintf("deeplink: a variable route already exists on %s", parent)
	}
	return fmt.Sprintf("deeplink: a route named %q already exists on %s", e.Name, parent)
}

func (e *DuplicateRouteError) Is(target error) bool {
	return target == ErrDuplicateRoute
}

// MalformedURLError reports input that could not be decomposed into
// route components.
type MalformedURLError struct {
	Input string
	Err   error
}

func (e *MalformedURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deeplink: malformed url %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("deeplink: malformed url %q", e.Input)
}

func (e *MalformedURLError) Unwrap() error {
	return e.Err
}

// IsDuplicateRoute reports whether err was caused by a duplicate registration.
func IsDuplicateRoute(err error) bool {
	return errors.Is(err, ErrDuplicateRoute)
}
