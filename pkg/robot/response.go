package robot

import (
	"context"
	"fmt"

	"webby/pkg/bus"
	"webby/pkg/message"
)

// Response methods for the response-chain Method field.
const (
	MethodSend  = "send"
	MethodReply = "reply"
)

// Response gives a listener callback everything it needs to act on a matched
// message: the message itself, the pattern captures when the listener is
// pattern-based (Match[0] is the full match), and the reply primitives.
type Response struct {
	Message *message.Message
	Match   []string

	robot *Robot
}

func newResponse(r *Robot, msg *message.Message, match []string) *Response {
	return &Response{Message: msg, Match: match, robot: r}
}

// Send delivers texts to the room the message arrived in. Each payload runs
// through the response middleware chain first; a chain that halts drops the
// send silently (a veto, not an error).
func (resp *Response) Send(ctx context.Context, texts ...string) error {
	return resp.deliver(ctx, MethodSend, texts)
}

// Reply is Send with each payload addressed to the message's author.
func (resp *Response) Reply(ctx context.Context, texts ...string) error {
	addressed := make([]string, len(texts))
	for i, text := range texts {
		addressed[i] = fmt.Sprintf("%s: %s", resp.Message.User.Name, text)
	}

	return resp.deliver(ctx, MethodReply, addressed)
}

// Finish claims the message: the dispatcher stops searching for further
// listeners once the current one returns.
func (resp *Response) Finish() {
	resp.Message.Finish()
}

func (resp *Response) deliver(ctx context.Context, method string, texts []string) error {
	mc := newContext(resp.Message)
	mc.Response = resp
	mc.Method = method
	mc.Strings = texts

	if !resp.robot.responseStack.Execute(ctx, mc) {
		return nil
	}

	for _, text := range mc.Strings {
		env := bus.Envelope{
			Channel: resp.Message.Channel,
			Room:    resp.Message.Room(),
			UserID:  resp.Message.User.ID,
			Text:    text,
		}
		if !resp.robot.bus.PublishOutbound(ctx, env) {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", method, err)
			}
			return fmt.Errorf("%s: outbound bus closed", method)
		}
	}

	return nil
}
