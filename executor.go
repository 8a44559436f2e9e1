package deeplink

import (
	"errors"
	"sync"
)

// Executor is the serialized context on which actions and navigator calls
// run, typically an application's UI thread. Run must execute f, never
// concurrently with another f, and return only after f has returned.
type Executor interface {
	Run(f func())
}

type ExecutorFunc func(func())

func (fn ExecutorFunc) Run(f func()) {
	fn(f)
}

// serialExecutor runs f on the calling goroutine while holding a lock.
type serialExecutor struct {
	mu sync.Mutex
}

// SerialExecutor returns an Executor that runs work inline, one function
// at a time.
func SerialExecutor() Executor {
	return &serialExecutor{}
}

func (e *serialExecutor) Run(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f()
}

// ErrQueueClosed is returned by Queue.Post after Close.
var ErrQueueClosed = errors.New("deeplink: queue closed")

// Queue is an Executor backed by a single dedicated goroutine, for hosts
// that have no main loop of their own.
type Queue struct {
	work      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewQueue() *Queue {
	q := &Queue{
		work: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		select {
		case f := <-q.work:
			f()
		case <-q.quit:
			return
		}
	}
}

// Post schedules f on the queue goroutine without waiting for it.
func (q *Queue) Post(f func()) error {
	select {
	case q.work <- f:
		return nil
	case <-q.quit:
		return ErrQueueClosed
	}
}

// Run executes f on the queue goroutine and waits for it. After Close, f
// runs on the caller instead so that evaluations in flight can finish.
func (q *Queue) Run(f func()) {
	finished := make(chan struct{})
	if err := q.Post(func() {
		defer close(finished)
		f()
	}); err != nil {
		f()
		return
	}
	<-finished
}

// Close stops the queue goroutine and waits for it to exit.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.quit) })
	<-q.done
}
