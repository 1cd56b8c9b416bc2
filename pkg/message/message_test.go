package message

import "testing"

func TestFinishIsSticky(t *testing.T) {
	msg := NewText(User{ID: "1", Name: "alice", Room: "general"}, "hello")

	if msg.Finished() {
		t.Fatal("new message must not be finished")
	}

	msg.Finish()
	if !msg.Finished() {
		t.Fatal("expected message to be finished")
	}

	msg.Finish()
	if !msg.Finished() {
		t.Fatal("finished flag must stay set")
	}
}

func TestNewCatchAllWrapsOriginal(t *testing.T) {
	user := User{ID: "1", Name: "alice", Room: "general"}
	orig := NewText(user, "hello")
	orig.Channel = "shell"

	wrapped := NewCatchAll(orig)
	if wrapped.Kind != KindCatchAll {
		t.Fatalf("kind = %v, want %v", wrapped.Kind, KindCatchAll)
	}
	if wrapped.Wrapped != orig {
		t.Fatal("expected catch-all to wrap the original message")
	}
	if wrapped.Channel != orig.Channel {
		t.Fatalf("channel = %q, want %q", wrapped.Channel, orig.Channel)
	}
	if wrapped.User != user {
		t.Fatalf("user = %+v, want %+v", wrapped.User, user)
	}
	if wrapped.Finished() {
		t.Fatal("catch-all must carry its own clean done flag")
	}
}

func TestNewCatchAllDoesNotRewrap(t *testing.T) {
	orig := NewText(User{Name: "alice"}, "hello")
	once := NewCatchAll(orig)

	if twice := NewCatchAll(once); twice != once {
		t.Fatal("wrapping a catch-all must return it unchanged")
	}
}

func TestConstructorsSetKindAndText(t *testing.T) {
	user := User{ID: "1", Name: "alice", Room: "general"}

	tests := []struct {
		name string
		msg  *Message
		kind Kind
		text string
	}{
		{"text", NewText(user, "hi"), KindText, "hi"},
		{"enter", NewEnter(user), KindEnter, ""},
		{"leave", NewLeave(user), KindLeave, ""},
		{"topic", NewTopic(user, "deploys"), KindTopic, "deploys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tt.msg.Kind, tt.kind)
			}
			if tt.msg.Text != tt.text {
				t.Fatalf("text = %q, want %q", tt.msg.Text, tt.text)
			}
			if tt.msg.ID == "" {
				t.Fatal("expected generated message ID")
			}
			if tt.msg.Room() != "general" {
				t.Fatalf("room = %q, want %q", tt.msg.Room(), "general")
			}
		})
	}
}
