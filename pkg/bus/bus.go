package bus

import (
	"context"
	"sync"

	"webby/pkg/message"
)

const defaultBufferSize = 100

// Envelope routes one outbound payload back to the transport it belongs to.
type Envelope struct {
	Channel string `json:"channel"`
	Room    string `json:"room"`
	UserID  string `json:"user_id,omitempty"`
	Text    string `json:"text"`
}

// Bus decouples channel adapters from the dispatcher. Adapters publish
// inbound messages as they arrive; the robot consumes them one at a time, so
// per-adapter arrival order is preserved by the FIFO buffer. Outbound
// envelopes flow the other way.
type Bus struct {
	inbound  chan *message.Message
	outbound chan Envelope

	done      chan struct{}
	closeOnce sync.Once
}

func New() *Bus {
	return &Bus{
		inbound:  make(chan *message.Message, defaultBufferSize),
		outbound: make(chan Envelope, defaultBufferSize),
		done:     make(chan struct{}),
	}
}

// PublishInbound enqueues one inbound message. It reports false when the bus
// is closed or ctx is canceled before the message is accepted.
func (b *Bus) PublishInbound(ctx context.Context, msg *message.Message) bool {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	default:
	}

	select {
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	case b.inbound <- msg:
		return true
	}
}

// ConsumeInbound blocks until an inbound message is available, the bus is
// closed, or ctx is canceled.
func (b *Bus) ConsumeInbound(ctx context.Context) (*message.Message, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-ctx.Done():
		return nil, false
	case <-b.done:
		return nil, false
	case msg := <-b.inbound:
		return msg, true
	}
}

// PublishOutbound enqueues one outbound envelope for adapter delivery.
func (b *Bus) PublishOutbound(ctx context.Context, env Envelope) bool {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	default:
	}

	select {
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	case b.outbound <- env:
		return true
	}
}

// ConsumeOutbound blocks until an outbound envelope is available, the bus is
// closed, or ctx is canceled.
func (b *Bus) ConsumeOutbound(ctx context.Context) (Envelope, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-ctx.Done():
		return Envelope{}, false
	case <-b.done:
		return Envelope{}, false
	case env := <-b.outbound:
		return env, true
	}
}

// Close shuts the bus down. Blocked publishers and consumers unblock; further
// calls are no-ops.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
