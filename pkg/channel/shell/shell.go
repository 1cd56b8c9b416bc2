package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"webby/pkg/bus"
	"webby/pkg/channel"
	"webby/pkg/message"
)

const channelName = "shell"

// Adapter is a stdin/stdout transport for local runs. Lines beginning with
// "{" are decoded as raw JSON events (so enter/leave/topic events can be
// injected by hand); every other line becomes a text message from the local
// user. Outbound text prints to stdout.
type Adapter struct {
	log  *slog.Logger
	in   io.Reader
	user message.User

	mu  sync.Mutex
	out io.Writer
}

// NewAdapter builds a shell adapter on os.Stdin/os.Stdout.
func NewAdapter(log *slog.Logger) *Adapter {
	return newWithIO(log, os.Stdin, os.Stdout)
}

func newWithIO(log *slog.Logger, in io.Reader, out io.Writer) *Adapter {
	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		log:  log.With("component", "channel.shell"),
		in:   in,
		out:  out,
		user: message.User{ID: "1", Name: "shell", Room: "shell"},
	}
}

// Name returns the channel identifier used in envelopes and logs.
func (a *Adapter) Name() string {
	return channelName
}

// Run reads lines until EOF or ctx cancellation and forwards each as an
// inbound message.
func (a *Adapter) Run(ctx context.Context, receive channel.ReceiveFunc) error {
	if receive == nil {
		return errors.New("receive func is required")
	}

	// The scanner goroutine blocks in Scan on a read; after ctx is canceled
	// Run returns immediately, but the goroutine lingers until the next line
	// or EOF arrives. Accepted: the adapter reads stdin and lives for the
	// process lifetime.
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case lines <- scanner.Text():
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
				default:
				}
				return nil
			}

			msg := a.inboundMessage(line)
			if msg == nil {
				continue
			}
			if err := receive(ctx, msg); err != nil {
				a.log.Error("Failed to enqueue inbound message", "error", err)
			}
		}
	}
}

// Send prints one outbound envelope's text to the adapter's output.
func (a *Adapter) Send(_ context.Context, env bus.Envelope) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := fmt.Fprintln(a.out, env.Text); err != nil {
		return fmt.Errorf("write outbound: %w", err)
	}

	return nil
}

func (a *Adapter) inboundMessage(line string) *message.Message {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	var msg *message.Message
	if strings.HasPrefix(trimmed, "{") {
		decoded, err := message.Decode([]byte(trimmed))
		if err != nil {
			a.log.Warn("Ignoring undecodable event line", "error", err)
			return nil
		}
		msg = decoded
		if msg.User.Room == "" {
			msg.User.Room = a.user.Room
		}
	} else {
		msg = message.NewText(a.user, trimmed)
	}

	msg.Channel = channelName
	return msg
}
