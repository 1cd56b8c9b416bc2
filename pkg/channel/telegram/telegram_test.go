package telegram

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"webby/pkg/config"
	"webby/pkg/message"

	"github.com/mymmrac/telego"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAdapterRequiresToken(t *testing.T) {
	if _, err := NewAdapter(config.TelegramConfig{}, nil); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestSenderAllowed(t *testing.T) {
	a := &Adapter{allowFrom: allowFromSet([]string{"42", " 7 "})}

	if !a.senderAllowed("42") {
		t.Fatal("listed sender must be allowed")
	}
	if !a.senderAllowed("7") {
		t.Fatal("allow list entries must be trimmed")
	}
	if a.senderAllowed("99") {
		t.Fatal("unlisted sender must be rejected")
	}

	open := &Adapter{}
	if !open.senderAllowed("anyone") {
		t.Fatal("empty allow list accepts all senders")
	}
}

func TestAllowFromSetIgnoresBlanks(t *testing.T) {
	if got := allowFromSet([]string{" ", ""}); got != nil {
		t.Fatalf("allowFromSet = %v, want nil", got)
	}
	if got := allowFromSet(nil); got != nil {
		t.Fatalf("allowFromSet = %v, want nil", got)
	}
}

func TestInboundMessageMapsTextUpdates(t *testing.T) {
	a := &Adapter{log: testLogger()}

	update := telego.Update{Message: &telego.Message{
		Text: " hello webby ",
		From: &telego.User{ID: 42, FirstName: "Alice"},
		Chat: telego.Chat{ID: 1001},
	}}

	msg := a.inboundMessage(update)
	if msg == nil {
		t.Fatal("expected a message")
	}
	if msg.Kind != message.KindText {
		t.Fatalf("kind = %v, want %v", msg.Kind, message.KindText)
	}
	if msg.Text != "hello webby" {
		t.Fatalf("text = %q, want %q", msg.Text, "hello webby")
	}
	if msg.User.ID != "42" || msg.User.Name != "Alice" || msg.User.Room != "1001" {
		t.Fatalf("user = %+v", msg.User)
	}
	if msg.Channel != channelName {
		t.Fatalf("channel = %q, want %q", msg.Channel, channelName)
	}
}

func TestInboundMessageIgnoresNonTextAndUnauthorized(t *testing.T) {
	a := &Adapter{log: testLogger(), allowFrom: allowFromSet([]string{"1"})}

	if got := a.inboundMessage(telego.Update{}); got != nil {
		t.Fatal("update without message must be ignored")
	}
	if got := a.inboundMessage(telego.Update{Message: &telego.Message{Text: "  "}}); got != nil {
		t.Fatal("blank text must be ignored")
	}

	update := telego.Update{Message: &telego.Message{
		Text: "hi",
		From: &telego.User{ID: 99, FirstName: "Mallory"},
		Chat: telego.Chat{ID: 1001},
	}}
	if got := a.inboundMessage(update); got != nil {
		t.Fatal("unauthorized sender must be ignored")
	}
}

func TestPreviewTextBoundsOutput(t *testing.T) {
	long := strings.Repeat("a", messagePreviewLimit+10)

	got := previewText(long)
	if len(got) != messagePreviewLimit+3 {
		t.Fatalf("preview length = %d, want %d", len(got), messagePreviewLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatal("expected truncated preview to end with ellipsis")
	}

	if got := previewText(" short "); got != "short" {
		t.Fatalf("preview = %q, want %q", got, "short")
	}
}
