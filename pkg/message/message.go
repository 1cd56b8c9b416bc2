package message

import (
	"github.com/google/uuid"
)

// Kind discriminates the message variants the dispatch pipeline understands.
type Kind int

const (
	KindText Kind = iota
	KindEnter
	KindLeave
	KindTopic
	KindCatchAll
)

// String returns the stable wire/log name for a message kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEnter:
		return "enter"
	case KindLeave:
		return "leave"
	case KindTopic:
		return "topic"
	case KindCatchAll:
		return "catch_all"
	default:
		return "unknown"
	}
}

// User identifies the author of a message and the room it arrived in.
type User struct {
	ID   string
	Name string
	Room string
}

// Message is one inbound chat event flowing through a dispatch pass.
//
// Text holds the message body for KindText and the new topic for KindTopic.
// Wrapped is set only on KindCatchAll and points at the original message the
// fallback pass is handling.
type Message struct {
	ID      string
	Kind    Kind
	Channel string
	User    User
	Text    string
	Wrapped *Message

	done bool
}

// NewText builds a text message from user in their current room.
func NewText(user User, text string) *Message {
	return &Message{ID: uuid.NewString(), Kind: KindText, User: user, Text: text}
}

// NewEnter builds a room-enter event for user.
func NewEnter(user User) *Message {
	return &Message{ID: uuid.NewString(), Kind: KindEnter, User: user}
}

// NewLeave builds a room-leave event for user.
func NewLeave(user User) *Message {
	return &Message{ID: uuid.NewString(), Kind: KindLeave, User: user}
}

// NewTopic builds a topic-change event carrying the new topic text.
func NewTopic(user User, topic string) *Message {
	return &Message{ID: uuid.NewString(), Kind: KindTopic, User: user, Text: topic}
}

// NewCatchAll wraps inner in a fallback message for the catch-all pass.
// A catch-all is never wrapped a second time; wrapping one returns it as is.
func NewCatchAll(inner *Message) *Message {
	if inner.Kind == KindCatchAll {
		return inner
	}

	return &Message{
		ID:      uuid.NewString(),
		Kind:    KindCatchAll,
		Channel: inner.Channel,
		User:    inner.User,
		Text:    inner.Text,
		Wrapped: inner,
	}
}

// Finish marks the message as claimed. This is the single mutation point for
// the done flag: once finished, a message stays finished for its lifetime and
// no further listener is matched against it.
func (m *Message) Finish() {
	m.done = true
}

// Finished reports whether the message has been claimed.
func (m *Message) Finished() bool {
	return m.done
}

// Room returns the room the message belongs to.
func (m *Message) Room() string {
	return m.User.Room
}
