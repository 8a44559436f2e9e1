package deeplink

import "sync"

// Navigator performs the navigation requested by Push, Modal and Segue
// routes. All methods are called on the registry's Executor.
//
// Push, Present and PerformSegue return true when they started a
// transition. In that case the navigator must call t.Finish once the
// transition has settled (the new screen appeared); the next step of the
// evaluation does not run before that. Returning false means nothing was
// started and the evaluation continues immediately.
type Navigator interface {
	Push(target Target, animated bool, t *Transition) bool
	Present(target Target, animated bool, t *Transition) bool
	PerformSegue(identifier string, animated bool, t *Transition) bool

	// DismissPresented is called before the first step of every
	// evaluation so that it starts from a clean surface.
	DismissPresented(animated bool)
}

// Selector is implemented by navigators that switch between the persistent
// targets of Fixed routes, such as tabs.
type Selector interface {
	Select(target Target)
}

// TabNavigator is implemented by navigators that hold the targets of the
// top-level Fixed routes. See Registry.SyncNavigator.
type TabNavigator interface {
	Targets() []Target
	SetTargets(targets []Target, animated bool)
}

// Stack is implemented by targets holding nested pages. When a cached
// Fixed target is reused while deeper than its root page, it is popped back
// to the root.
type Stack interface {
	Depth() int
	PopToRoot(animated bool, t *Transition) bool
}

// Transition is the per-step rendezvous between the dispatcher and a
// navigator.
type Transition struct {
	once sync.Once
	done chan struct{}
}

func newTransition() *Transition {
	return &Transition{done: make(chan struct{})}
}

// Finish signals that the transition has visually completed. Calling it
// more than once is harmless.
func (t *Transition) Finish() {
	t.once.Do(func() { close(t.done) })
}

func (t *Transition) Done() <-chan struct{} {
	return t.done
}
