package bot

import (
	"context"

	"go.uber.org/zap"

	"hatch_egg_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type notification struct {
	userID int64
	text   string
}

// Notifier delivers congratulation messages off the hot path. Delivery is
// at-most-once: a full queue or a failed send drops the message after a log
// line, and the triggering operation never sees the failure.
type Notifier struct {
	api   *tgbotapi.BotAPI
	queue chan notification
}

func NewNotifier(api *tgbotapi.BotAPI, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Notifier{
		api:   api,
		queue: make(chan notification, queueSize),
	}
}

// Notify implements service.Notifier.
func (n *Notifier) Notify(userID int64, text string) {
	select {
	case n.queue <- notification{userID: userID, text: text}:
	default:
		logger.Logger().Warn("notification queue full, dropping message",
			zap.Int64("user_id", userID))
	}
}

func (n *Notifier) Run(ctx context.Context) {
	log := logger.Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.queue:
			if _, err := n.api.Send(tgbotapi.NewMessage(msg.userID, msg.text)); err != nil {
				log.Error("failed to send notification",
					zap.Int64("user_id", msg.userID), zap.Error(err))
			}
		}
	}
}
