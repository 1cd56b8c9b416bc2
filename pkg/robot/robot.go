package robot

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"webby/pkg/bus"
	"webby/pkg/channel"
	"webby/pkg/message"
)

// Robot wires the middleware stacks, the listener registry, the error
// channel and the message bus into one dispatch pipeline. Listener and
// middleware registration is expected at setup time, but both are safe
// against an in-flight dispatch pass: the pass operates on snapshots taken
// when it starts.
type Robot struct {
	name  string
	alias string
	log   *slog.Logger

	bus      *bus.Bus
	errors   *ErrorChannel
	registry *registry
	adapters map[string]channel.Adapter

	receiveStack  *Stack
	listenerStack *Stack
	responseStack *Stack
}

// New builds a robot named name. alias may be empty; adapters may be empty
// for embedded or test use, in which case outbound envelopes queue on the
// bus until consumed.
func New(name, alias string, adapters []channel.Adapter, log *slog.Logger) (*Robot, error) {
	if name == "" {
		return nil, errors.New("robot name is required")
	}
	if log == nil {
		log = slog.Default()
	}

	errs := NewErrorChannel(log)
	r := &Robot{
		name:          name,
		alias:         alias,
		log:           log.With("component", "robot"),
		bus:           bus.New(),
		errors:        errs,
		registry:      &registry{},
		adapters:      make(map[string]channel.Adapter, len(adapters)),
		receiveStack:  newStack("receive", errs),
		listenerStack: newStack("listener", errs),
		responseStack: newStack("response", errs),
	}

	for _, adapter := range adapters {
		r.adapters[adapter.Name()] = adapter
	}

	return r, nil
}

// Name returns the bot's primary name.
func (r *Robot) Name() string { return r.name }

// Alias returns the bot's alias, if configured.
func (r *Robot) Alias() string { return r.alias }

// Listen registers a generic listener with an arbitrary matcher. A nil
// matcher or callback is ignored.
func (r *Robot) Listen(matcher Matcher, opts Options, cb Callback) {
	if matcher == nil || cb == nil {
		return
	}

	r.registry.add(newListener(matcher, opts, cb))
}

// Hear registers a pattern listener matched against the text of every
// message, addressed to the bot or not. A nil pattern or callback is
// ignored.
func (r *Robot) Hear(re *regexp.Regexp, opts Options, cb Callback) {
	if re == nil || cb == nil {
		return
	}

	r.registry.add(newPatternListener(re, opts, cb))
}

// Respond registers a pattern listener that only matches messages addressed
// to the bot by name or alias ("Webby: foo", "@Webby foo", "webby, foo").
func (r *Robot) Respond(re *regexp.Regexp, opts Options, cb Callback) error {
	if re == nil {
		return errors.New("pattern is required")
	}
	if cb == nil {
		return errors.New("callback is required")
	}

	addressed, err := addressedPattern(re, r.name, r.alias, r.log)
	if err != nil {
		return err
	}

	r.registry.add(newPatternListener(addressed, opts, cb))
	return nil
}

// Enter registers a listener for room-enter events.
func (r *Robot) Enter(opts Options, cb Callback) {
	r.Listen(kindMatcher(message.KindEnter), opts, cb)
}

// Leave registers a listener for room-leave events.
func (r *Robot) Leave(opts Options, cb Callback) {
	r.Listen(kindMatcher(message.KindLeave), opts, cb)
}

// Topic registers a listener for topic-change events.
func (r *Robot) Topic(opts Options, cb Callback) {
	r.Listen(kindMatcher(message.KindTopic), opts, cb)
}

// CatchAll registers a listener for the fallback pass that runs when no
// listener executed for the original message.
func (r *Robot) CatchAll(opts Options, cb Callback) {
	r.Listen(kindMatcher(message.KindCatchAll), opts, cb)
}

func kindMatcher(kind message.Kind) Matcher {
	return func(msg *message.Message) bool {
		return msg.Kind == kind
	}
}

// ReceiveMiddleware appends fn to the chain that gates every inbound message
// before listener search.
func (r *Robot) ReceiveMiddleware(fn Middleware) {
	r.receiveStack.Register(fn)
}

// ListenerMiddleware appends fn to the chain that wraps every matched
// listener's callback.
func (r *Robot) ListenerMiddleware(fn Middleware) {
	r.listenerStack.Register(fn)
}

// ResponseMiddleware appends fn to the chain every outbound payload passes
// through before it reaches a transport.
func (r *Robot) ResponseMiddleware(fn Middleware) {
	r.responseStack.Register(fn)
}

// OnError registers a handler on the robot's error channel.
func (r *Robot) OnError(handler ErrorHandler) {
	r.errors.On(handler)
}

// Error reports a failure on the robot's error channel. Exposed so plugins
// can surface their own faults the same way dispatch faults travel.
func (r *Robot) Error(err error, resp *Response) {
	r.errors.Report(err, resp)
}

// Enqueue publishes one inbound message on the bus for the run loop to
// dispatch. Adapters use this as their receive function.
func (r *Robot) Enqueue(ctx context.Context, msg *message.Message) error {
	if msg == nil {
		return errors.New("message is required")
	}
	if !r.bus.PublishInbound(ctx, msg) {
		return errors.New("inbound bus closed")
	}

	return nil
}

// Receive runs one complete dispatch pass for msg and returns once the pass
// has settled: receive chain, in-order listener search, then at most one
// catch-all re-dispatch. It returns exactly once per call no matter how many
// listeners matched, executed or failed; individual failures are isolated
// and reported on the error channel, never returned here.
func (r *Robot) Receive(ctx context.Context, msg *message.Message) error {
	if msg == nil {
		return errors.New("message is required")
	}

	r.dispatch(ctx, msg)
	return nil
}

func (r *Robot) dispatch(ctx context.Context, msg *message.Message) {
	mc := newContext(msg)
	if !r.receiveStack.Execute(ctx, mc) {
		// Receive chain aborted: no listener is attempted and no catch-all
		// runs for this message.
		return
	}

	if msg.Finished() {
		// A receive middleware claimed the message. Treat it as handled:
		// skip the listener search and the catch-all.
		return
	}

	executed := false
	for _, l := range r.registry.snapshot() {
		if l.call(ctx, r, msg) {
			executed = true
		}
		if msg.Finished() {
			break
		}
	}

	if !executed && msg.Kind != message.KindCatchAll {
		r.dispatch(ctx, message.NewCatchAll(msg))
	}
}
