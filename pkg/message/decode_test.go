package message

import "testing"

func TestDecodeTextEvent(t *testing.T) {
	raw := []byte(`{"type":"text","user":{"id":"7","name":"alice"},"room":"general","text":"hello"}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if msg.Kind != KindText {
		t.Fatalf("kind = %v, want %v", msg.Kind, KindText)
	}
	if msg.Text != "hello" {
		t.Fatalf("text = %q, want %q", msg.Text, "hello")
	}
	if msg.User.Name != "alice" || msg.User.Room != "general" {
		t.Fatalf("user = %+v", msg.User)
	}
}

func TestDecodeDefaultsToTextWhenTypeMissing(t *testing.T) {
	msg, err := Decode([]byte(`{"text":"hi","user":{"id":"1"}}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if msg.Kind != KindText {
		t.Fatalf("kind = %v, want %v", msg.Kind, KindText)
	}
}

func TestDecodePresenceAndTopicEvents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
		text string
	}{
		{"enter", `{"type":"enter","user":{"id":"1","name":"bob"},"room":"ops"}`, KindEnter, ""},
		{"leave", `{"type":"leave","user":{"id":"1","name":"bob"},"room":"ops"}`, KindLeave, ""},
		{"topic", `{"type":"topic","user":{"id":"1"},"room":"ops","topic":"release week"}`, KindTopic, "release week"},
		{"topic text fallback", `{"type":"topic","user":{"id":"1"},"room":"ops","text":"release week"}`, KindTopic, "release week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if msg.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", msg.Kind, tt.kind)
			}
			if msg.Text != tt.text {
				t.Fatalf("text = %q, want %q", msg.Text, tt.text)
			}
		})
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := Decode([]byte(`{"type":"dance"}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if _, err := Decode([]byte(`{"user":{"id":"1"}}`)); err == nil {
		t.Fatal("expected error when both type and text are missing")
	}
}
