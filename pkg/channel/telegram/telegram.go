package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"webby/pkg/bus"
	"webby/pkg/channel"
	"webby/pkg/config"
	"webby/pkg/message"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

const channelName = "telegram"
const messagePreviewLimit = 240

// Adapter bridges Telegram updates into Webby messages. Each text update
// becomes a message.Text event whose room is the Telegram chat ID.
type Adapter struct {
	cfg       config.TelegramConfig
	allowFrom map[string]struct{}
	log       *slog.Logger
	bot       *telego.Bot
}

// NewAdapter validates Telegram configuration and constructs an adapter
// instance.
func NewAdapter(cfg config.TelegramConfig, log *slog.Logger) (*Adapter, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("channels.telegram.token is required")
	}

	if log == nil {
		log = slog.Default()
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	return &Adapter{
		cfg:       cfg,
		allowFrom: allowFromSet(cfg.AllowFrom),
		log:       log.With("component", "channel.telegram"),
		bot:       bot,
	}, nil
}

// Name returns the channel identifier used in envelopes and logs.
func (a *Adapter) Name() string {
	return channelName
}

// Run starts Telegram long polling and forwards text updates through
// receive until ctx is canceled.
func (a *Adapter) Run(ctx context.Context, receive channel.ReceiveFunc) error {
	if receive == nil {
		return errors.New("receive func is required")
	}

	updates, err := a.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	a.log.Info("Telegram channel started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if err := ctx.Err(); err != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}

			msg := a.inboundMessage(update)
			if msg == nil {
				continue
			}

			a.log.Info("Received message", "room", msg.Room(), "sender_id", msg.User.ID, "content", previewText(msg.Text))
			if err := receive(ctx, msg); err != nil {
				a.log.Error("Failed to enqueue inbound message", "error", err)
			}
		}
	}
}

// Send delivers one outbound envelope to the Telegram chat named by its
// room.
func (a *Adapter) Send(ctx context.Context, env bus.Envelope) error {
	text := strings.TrimSpace(env.Text)
	if text == "" {
		return nil
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(env.Room), 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id %q: %w", env.Room, err)
	}

	a.log.Info("Sending message", "room", env.Room, "content", previewText(text))
	if _, err := a.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}

// inboundMessage maps one update to a dispatchable message, or nil when the
// update should be ignored.
func (a *Adapter) inboundMessage(update telego.Update) *message.Message {
	tgMessage := update.Message
	if tgMessage == nil {
		return nil
	}

	content := strings.TrimSpace(tgMessage.Text)
	if content == "" {
		// Ignore non-text updates; the dispatch core works on text events.
		return nil
	}
	if tgMessage.From == nil {
		a.log.Debug("Ignoring message without sender")
		return nil
	}

	senderID := strconv.FormatInt(tgMessage.From.ID, 10)
	if !a.senderAllowed(senderID) {
		a.log.Debug("Ignoring message from unauthorized sender", "sender_id", senderID)
		return nil
	}

	user := message.User{
		ID:   senderID,
		Name: strings.TrimSpace(tgMessage.From.FirstName),
		Room: strconv.FormatInt(tgMessage.Chat.ID, 10),
	}
	if user.Name == "" {
		user.Name = tgMessage.From.Username
	}

	msg := message.NewText(user, content)
	msg.Channel = channelName
	return msg
}

// senderAllowed checks whether a sender is permitted by allow_from config.
//
// When no allow list is configured, all senders are accepted.
func (a *Adapter) senderAllowed(senderID string) bool {
	if len(a.allowFrom) == 0 {
		return true
	}

	_, ok := a.allowFrom[strings.TrimSpace(senderID)]
	return ok
}

// allowFromSet normalizes allow_from values into a lookup set.
func allowFromSet(allowFrom []string) map[string]struct{} {
	if len(allowFrom) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(allowFrom))
	for _, value := range allowFrom {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		allowed[trimmed] = struct{}{}
	}

	if len(allowed) == 0 {
		return nil
	}

	return allowed
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}
