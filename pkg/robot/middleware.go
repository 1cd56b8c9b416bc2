package robot

import (
	"context"
	"fmt"
	"sync"

	"webby/pkg/message"
)

// Decision tells a middleware stack whether the chain keeps running.
type Decision int

const (
	// Continue hands control to the next middleware in the chain.
	Continue Decision = iota
	// Halt stops the chain. Halting is an explicit veto, not an error: no
	// listener (or outbound send) downstream of the chain runs, and nothing
	// is reported.
	Halt
)

// Context carries the mutable per-pass state threaded through one middleware
// chain. Mutating it is the only sanctioned way for middleware to
// communicate; no return value other than the Decision drives control flow.
//
// Message is always set. Response and Listener are set on the listener
// chain; Response, Method and Strings on the response chain. Values holds
// chain-scoped extension data keyed by middleware.
type Context struct {
	Message  *message.Message
	Response *Response
	Listener *Listener
	Method   string
	Strings  []string
	Values   map[string]any
}

func newContext(msg *message.Message) *Context {
	return &Context{Message: msg, Values: make(map[string]any)}
}

// Middleware inspects or rewrites the chain context and decides whether the
// chain continues. Returning a non-nil error aborts the chain the same way
// Halt does, and additionally reports the fault on the robot's error channel.
type Middleware func(ctx context.Context, mc *Context) (Decision, error)

// Stack is one ordered, append-only middleware chain. Registration order is
// execution order and there is no removal. A Robot owns three independent
// stacks: receive, listener and response.
type Stack struct {
	name   string
	errors *ErrorChannel

	mu  sync.Mutex
	fns []Middleware
}

func newStack(name string, errors *ErrorChannel) *Stack {
	return &Stack{name: name, errors: errors}
}

// Register appends fn to the chain.
func (s *Stack) Register(fn Middleware) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

// Len returns the number of registered middleware.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// Execute runs the chain over mc in registration order and reports whether
// every middleware continued. It is a plain sequential loop, so call-stack
// depth stays constant no matter how long the chain is, and each middleware
// observes every effect of the ones before it.
//
// A middleware that returns an error, or panics, aborts this chain instance
// only: the fault goes to the error channel and Execute returns false
// exactly as if the middleware had halted.
func (s *Stack) Execute(ctx context.Context, mc *Context) bool {
	for i, fn := range s.snapshot() {
		decision, err := s.runOne(ctx, fn, mc)
		if err != nil {
			s.errors.Report(fmt.Errorf("%s middleware %d: %w", s.name, i, err), mc.Response)
			return false
		}
		if decision == Halt {
			return false
		}
	}

	return true
}

func (s *Stack) runOne(ctx context.Context, fn Middleware, mc *Context) (decision Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			decision = Halt
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn(ctx, mc)
}

// snapshot returns the chain as registered when the call starts. Middleware
// registered while a chain instance is running is picked up by the next
// Execute, never mid-chain.
func (s *Stack) snapshot() []Middleware {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fns[:len(s.fns):len(s.fns)]
}
