package robot

import (
	"fmt"
	"log/slog"
	"sync"
)

// ErrorHandler receives every failure reported during dispatch, together
// with the response context in flight when the failure happened (nil when
// there was none, for example a receive-chain fault).
type ErrorHandler func(err error, resp *Response)

// ErrorChannel collects failures from every dispatch stage and fans them out
// to registered handlers without aborting unrelated work. One instance is
// owned by each Robot and lives exactly as long as it does; nothing here is
// process-global and nothing is persisted.
type ErrorChannel struct {
	log *slog.Logger

	mu       sync.Mutex
	handlers []ErrorHandler
}

// NewErrorChannel builds an error channel logging through log.
func NewErrorChannel(log *slog.Logger) *ErrorChannel {
	if log == nil {
		log = slog.Default()
	}

	return &ErrorChannel{log: log.With("component", "robot.errors")}
}

// On registers a handler. Handlers run in registration order on every
// report.
func (e *ErrorChannel) On(handler ErrorHandler) {
	if handler == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// Report logs err and invokes every registered handler with it. A handler
// that panics is caught and logged; later handlers still run and nothing
// propagates to the caller.
func (e *ErrorChannel) Report(err error, resp *Response) {
	if err == nil {
		return
	}

	e.log.Error("Dispatch error", "error", err)

	e.mu.Lock()
	handlers := e.handlers[:len(e.handlers):len(e.handlers)]
	e.mu.Unlock()

	for _, handler := range handlers {
		e.invoke(handler, err, resp)
	}
}

func (e *ErrorChannel) invoke(handler ErrorHandler, err error, resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Error handler panicked", "error", fmt.Sprintf("%v", r))
		}
	}()

	handler(err, resp)
}
