package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	userID := msg.From.ID

	stats, err := b.svc.Stats(ctx, userID)
	if err != nil {
		log.Error("failed to get stats for /start", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📊 View Stats", b.cfg.AppURL),
		),
	)

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"Hi! I'm the egg hatching bot 🥚\n\n"+
			"Use me in inline mode:\n"+
			"1. In any chat, start typing @%s egg\n"+
			"2. Select an egg from the results\n"+
			"3. Click 'Hatch' to hatch it! 🐣\n\n"+
			"📊 Your stats:\n"+
			"🥚 Hatched: %d\n"+
			"🐣 Your eggs hatched: %d",
		b.api.Self.UserName, stats.HatchedByMe, stats.MyEggsHatched))
	reply.ReplyMarkup = keyboard

	if _, err := b.api.Send(reply); err != nil {
		log.Error("failed to send /start reply", zap.Error(err))
	}
}

func (b *Bot) handleResetAll(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	userID := msg.From.ID

	if !b.isAdmin(userID) {
		log.Info("reset_all denied", zap.Int64("user_id", userID))
		return
	}

	if err := b.svc.ResetCounters(ctx); err != nil {
		log.Error("failed to reset counters", zap.Error(err))
		return
	}
	log.Info("all counters reset", zap.Int64("admin_id", userID))

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		"✅ All counters reset.\n\n"+
			"Cleared: points, sent/hatched counters, daily allowances, hatched eggs, tasks, referral earnings.\n"+
			"Kept: referral edges, payment history.")
	if _, err := b.api.Send(reply); err != nil {
		log.Error("failed to send reset confirmation", zap.Error(err))
	}
}

func (b *Bot) handleInlineQuery(ctx context.Context, query *tgbotapi.InlineQuery) {
	log := logger.Logger()
	q := strings.ToLower(strings.TrimSpace(query.Query))

	// Any query works as long as it is empty or mentions eggs.
	if q != "" && !strings.Contains(q, "egg") {
		b.answerInline(query.ID, nil)
		return
	}

	senderID := query.From.ID
	egg, callbackData, err := b.svc.Issue(ctx, senderID)
	if err != nil {
		log.Error("failed to issue egg", zap.Int64("sender_id", senderID), zap.Error(err))
		b.answerInline(query.ID, nil)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🥚 Hatch", callbackData),
		),
	)
	article := tgbotapi.InlineQueryResultArticle{
		Type:        "article",
		ID:          egg.EggID,
		Title:       "🥚 Send Egg",
		Description: "Click to send an egg to the chat",
		InputMessageContent: tgbotapi.InputTextMessageContent{
			Text:      "🥚",
			ParseMode: tgbotapi.ModeHTML,
		},
		ReplyMarkup: &keyboard,
	}

	b.answerInline(query.ID, []interface{}{article})
	log.Info("egg issued",
		zap.Int64("sender_id", senderID),
		zap.String("egg_id", egg.EggID))
}

func (b *Bot) answerInline(queryID string, results []interface{}) {
	if results == nil {
		results = []interface{}{}
	}
	answer := tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     1,
	}
	if _, err := b.api.Request(answer); err != nil {
		logger.Logger().Error("failed to answer inline query", zap.Error(err))
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	log := logger.Logger()
	clickerID := query.From.ID

	senderID, eggID, err := service.ParseHatchCallback(query.Data)
	if err != nil {
		log.Error("invalid callback data", zap.String("data", query.Data))
		b.answerCallback(query.ID, "❌ Error: invalid egg data", true)
		return
	}

	_, err = b.svc.Hatch(ctx, senderID, eggID, clickerID)
	switch {
	case errors.Is(err, service.ErrAlreadyHatched):
		b.answerCallback(query.ID, "🐣 This egg has already hatched!", true)
		return
	case errors.Is(err, service.ErrSelfHatch):
		b.answerCallback(query.ID, "❌ You can't hatch your own egg! Only the recipient can do it.", true)
		return
	case err != nil:
		log.Error("failed to hatch egg", zap.String("data", query.Data), zap.Error(err))
		b.answerCallback(query.ID, "❌ Something went wrong, try again", true)
		return
	}

	b.answerCallback(query.ID, "🐣 Hatching egg...", false)
	b.editHatchedMessage(query)
}

func (b *Bot) answerCallback(queryID, text string, alert bool) {
	var cb tgbotapi.CallbackConfig
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(queryID, text)
	} else {
		cb = tgbotapi.NewCallback(queryID, text)
	}
	if _, err := b.api.Request(cb); err != nil {
		logger.Logger().Error("failed to answer callback", zap.Error(err))
	}
}

// editHatchedMessage swaps the egg for a chick and offers follow-up actions.
// The message usually lives inline, so it is addressed by inline message id.
func (b *Bot) editHatchedMessage(query *tgbotapi.CallbackQuery) {
	log := logger.Logger()

	sendAgain := "egg"
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📱 Hatch App", b.cfg.AppURL),
			tgbotapi.InlineKeyboardButton{
				Text:                         "Send 🥚",
				SwitchInlineQueryCurrentChat: &sendAgain,
			},
		),
	)

	edit := tgbotapi.EditMessageTextConfig{
		BaseEdit: tgbotapi.BaseEdit{
			InlineMessageID: query.InlineMessageID,
			ReplyMarkup:     &keyboard,
		},
		Text: "🐣",
	}
	if query.InlineMessageID == "" && query.Message != nil {
		edit.BaseEdit.ChatID = query.Message.Chat.ID
		edit.BaseEdit.MessageID = query.Message.MessageID
	}

	if _, err := b.api.Request(edit); err != nil {
		log.Error("failed to edit hatched message", zap.Error(err))
		// Retry without the keyboard before giving up; the hatch itself is
		// already recorded either way.
		edit.BaseEdit.ReplyMarkup = nil
		if _, err := b.api.Request(edit); err != nil {
			log.Error("failed to edit hatched message without keyboard", zap.Error(err))
		}
	}
}

func (b *Bot) handleChatMember(ctx context.Context, update *tgbotapi.ChatMemberUpdated) {
	log := logger.Logger()

	if !strings.EqualFold(update.Chat.UserName, b.channelName()) {
		return
	}
	if !activeMemberStatus(update.NewChatMember.Status) {
		return
	}

	userID := update.NewChatMember.User.ID
	if _, err := b.svc.HandleMembershipChange(ctx, userID); err != nil {
		log.Error("failed to handle membership change", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func activeMemberStatus(status string) bool {
	switch status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}
