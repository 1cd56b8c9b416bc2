package channel

import (
	"context"

	"webby/pkg/bus"
	"webby/pkg/message"
)

// ReceiveFunc accepts one inbound message from a transport.
type ReceiveFunc func(ctx context.Context, msg *message.Message) error

// Adapter bridges one external transport (for example Telegram) into Webby.
// Run pushes inbound events through receive until ctx is canceled; Send
// delivers one finalized outbound envelope back to the transport.
type Adapter interface {
	Name() string
	Run(ctx context.Context, receive ReceiveFunc) error
	Send(ctx context.Context, env bus.Envelope) error
}
