package robot

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"webby/pkg/message"
)

// Matcher decides whether a listener is a candidate for a message. Matchers
// must be pure functions of the message content and listener configuration.
type Matcher func(msg *message.Message) bool

// Callback handles one matched message.
type Callback func(ctx context.Context, resp *Response)

// Options carries listener metadata, for example an "id" used by help and
// authorization plugins.
type Options map[string]any

// Listener pairs a matcher with a callback. Listeners are immutable after
// registration. Regex is set only on pattern listeners; its captures are
// exposed to the callback via Response.Match.
type Listener struct {
	Matcher  Matcher
	Options  Options
	Callback Callback
	Regex    *regexp.Regexp
}

func newListener(matcher Matcher, opts Options, cb Callback) *Listener {
	return &Listener{Matcher: matcher, Options: opts, Callback: cb}
}

func newPatternListener(re *regexp.Regexp, opts Options, cb Callback) *Listener {
	return &Listener{
		Matcher: func(msg *message.Message) bool {
			return msg.Kind == message.KindText && re.MatchString(msg.Text)
		},
		Options:  opts,
		Callback: cb,
		Regex:    re,
	}
}

// call attempts the listener against msg and reports whether the callback
// actually ran. A matched listener whose middleware chain aborted counts as
// matched but not executed. A panic inside the matcher or the callback is
// reported on the robot's error channel and counts as not executed; the
// caller keeps searching.
func (l *Listener) call(ctx context.Context, r *Robot, msg *message.Message) bool {
	match, ok := l.match(r, msg)
	if !ok {
		return false
	}

	resp := newResponse(r, msg, match)
	mc := newContext(msg)
	mc.Response = resp
	mc.Listener = l

	if !r.listenerStack.Execute(ctx, mc) {
		return false
	}

	return l.invoke(ctx, r, resp)
}

func (l *Listener) match(r *Robot, msg *message.Message) (match []string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.errors.Report(fmt.Errorf("listener matcher panic: %v", rec), nil)
			match, ok = nil, false
		}
	}()

	if l.Regex != nil {
		if msg.Kind != message.KindText {
			return nil, false
		}
		match = l.Regex.FindStringSubmatch(msg.Text)
		return match, match != nil
	}

	return nil, l.Matcher(msg)
}

func (l *Listener) invoke(ctx context.Context, r *Robot, resp *Response) (executed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.errors.Report(fmt.Errorf("listener callback panic: %v", rec), resp)
			executed = false
		}
	}()

	l.Callback(ctx, resp)
	return true
}

// registry is the ordered, append-only listener arena. Dispatch passes
// iterate a snapshot taken when the pass starts, so registration concurrent
// with an in-flight pass never affects it and never exposes partial entries.
type registry struct {
	mu    sync.Mutex
	items []*Listener
}

func (g *registry) add(l *Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items = append(g.items, l)
}

func (g *registry) snapshot() []*Listener {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.items[:len(g.items):len(g.items)]
}
