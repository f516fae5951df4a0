package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	// Bot qayta ishga tushganda eski update'larni o'tkazib yuboramiz
	if !h.botStartedAt.IsZero() && message.Time().Before(h.botStartedAt) {
		return
	}
	userID := message.From.ID

	// Faqat shaxsiy chat bilan ishlaymiz
	if !message.Chat.IsPrivate() {
		return
	}

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}
	if h.isAwaitingPassword(userID) {
		h.handlePasswordInput(ctx, message)
		return
	}
	if message.IsCommand() || strings.HasPrefix(strings.TrimSpace(message.Text), "/") {
		h.handleCommand(ctx, message)
		return
	}
	if h.handleDetectiveInput(ctx, message) {
		return
	}

	h.sendMessage(message.Chat.ID, "指令請用 /help 查詢。上傳蝦皮訂單報表 (.xlsx) 即可開始匯入。")
}
