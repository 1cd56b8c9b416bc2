package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"webby/pkg/bus"
	"webby/pkg/message"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collectInbound(t *testing.T, input string) []*message.Message {
	t.Helper()

	adapter := newWithIO(discardLogger(), strings.NewReader(input), &bytes.Buffer{})

	var got []*message.Message
	err := adapter.Run(context.Background(), func(_ context.Context, msg *message.Message) error {
		got = append(got, msg)
		return nil
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	return got
}

func TestRunForwardsPlainLinesAsText(t *testing.T) {
	got := collectInbound(t, "hello there\n")

	if len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
	if got[0].Kind != message.KindText {
		t.Fatalf("kind = %v, want %v", got[0].Kind, message.KindText)
	}
	if got[0].Text != "hello there" {
		t.Fatalf("text = %q, want %q", got[0].Text, "hello there")
	}
	if got[0].Channel != channelName {
		t.Fatalf("channel = %q, want %q", got[0].Channel, channelName)
	}
}

func TestRunDecodesJSONEventLines(t *testing.T) {
	got := collectInbound(t, `{"type":"enter","user":{"id":"2","name":"bob"},"room":"ops"}`+"\n")

	if len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
	if got[0].Kind != message.KindEnter {
		t.Fatalf("kind = %v, want %v", got[0].Kind, message.KindEnter)
	}
	if got[0].User.Name != "bob" {
		t.Fatalf("user name = %q, want %q", got[0].User.Name, "bob")
	}
}

func TestRunSkipsBlankAndUndecodableLines(t *testing.T) {
	got := collectInbound(t, "\n{broken json\nstill here\n")

	if len(got) != 1 {
		t.Fatalf("received %d messages, want 1", len(got))
	}
	if got[0].Text != "still here" {
		t.Fatalf("text = %q, want %q", got[0].Text, "still here")
	}
}

func TestSendWritesText(t *testing.T) {
	var out bytes.Buffer
	adapter := newWithIO(discardLogger(), strings.NewReader(""), &out)

	if err := adapter.Send(context.Background(), bus.Envelope{Text: "PONG"}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if out.String() != "PONG\n" {
		t.Fatalf("output = %q, want %q", out.String(), "PONG\n")
	}
}
