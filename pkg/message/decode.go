package message

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Decode maps one raw transport event to a Message.
//
// The envelope is discriminated by its "type" field: "text" (or a missing
// type with a "text" field present), "enter", "leave" and "topic" are
// understood. User identity comes from "user.id"/"user.name" and the room
// from "room". Adapters that receive untyped JSON can feed events straight
// through here instead of hand-rolling their own parsing.
func Decode(raw []byte) (*Message, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("decode event: invalid JSON")
	}

	user := User{
		ID:   gjson.GetBytes(raw, "user.id").String(),
		Name: gjson.GetBytes(raw, "user.name").String(),
		Room: gjson.GetBytes(raw, "room").String(),
	}

	kind := strings.ToLower(gjson.GetBytes(raw, "type").String())
	switch kind {
	case "text", "message":
		return NewText(user, gjson.GetBytes(raw, "text").String()), nil
	case "enter":
		return NewEnter(user), nil
	case "leave":
		return NewLeave(user), nil
	case "topic":
		topic := gjson.GetBytes(raw, "topic")
		if !topic.Exists() {
			topic = gjson.GetBytes(raw, "text")
		}
		return NewTopic(user, topic.String()), nil
	case "":
		if text := gjson.GetBytes(raw, "text"); text.Exists() {
			return NewText(user, text.String()), nil
		}
		return nil, fmt.Errorf("decode event: missing type and text fields")
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", kind)
	}
}
