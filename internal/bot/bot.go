package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Config struct {
	Token         string  `yaml:"token"`
	Channel       string  `yaml:"channel"`
	AppURL        string  `yaml:"appUrl"`
	AdminIDs      []int64 `yaml:"adminIds"`
	UpdateTimeout int     `yaml:"updateTimeout"`
}

// Bot drives the long-polling update loop and owns every chat-side surface:
// commands, the inline issue action, the hatch button, and channel
// membership updates.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg Config
	svc *service.Service
}

func New(api *tgbotapi.BotAPI, cfg Config, svc *service.Service) *Bot {
	return &Bot{api: api, cfg: cfg, svc: svc}
}

func (b *Bot) Run(ctx context.Context) {
	log := logger.Logger()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	if u.Timeout == 0 {
		u.Timeout = 30
	}
	u.AllowedUpdates = []string{"message", "inline_query", "callback_query", "chat_member"}

	updates := b.api.GetUpdatesChan(u)
	log.Info("bot update loop started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info("bot update loop stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.InlineQuery != nil:
		b.handleInlineQuery(ctx, update.InlineQuery)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.ChatMember != nil:
		b.handleChatMember(ctx, update.ChatMember)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "reset_all":
		b.handleResetAll(ctx, msg)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// channelName is the configured channel without the @ prefix, lowercased
// for comparisons against chat usernames.
func (b *Bot) channelName() string {
	return strings.ToLower(strings.TrimPrefix(b.cfg.Channel, "@"))
}
