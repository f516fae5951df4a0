package telegram

import (
	"context"
	"crypto/subtle"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Parol kutish holatini boshqarish
func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if awaiting {
		h.awaitingPassword[userID] = true
	} else {
		delete(h.awaitingPassword, userID)
	}
}

func (h *BotHandler) setAdminAuthorized(userID int64, authorized bool) {
	h.adminAuthMu.Lock()
	if authorized {
		h.adminAuthorized[userID] = true
	} else {
		delete(h.adminAuthorized, userID)
	}
	h.adminAuthMu.Unlock()
}

func (h *BotHandler) isAdminAuthorized(userID int64) bool {
	h.adminAuthMu.RLock()
	defer h.adminAuthMu.RUnlock()
	return h.adminAuthorized[userID]
}

// handlePasswordInput parol kiritilganini qayta ishlash
func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	_ = ctx
	userID := message.From.ID
	password := strings.TrimSpace(message.Text)

	// Parol kutish rejimini o'chirish
	h.setAwaitingPassword(userID, false)

	// Xabarni o'chirish (xavfsizlik uchun)
	h.deleteMessage(message.Chat.ID, message.MessageID)

	if subtle.ConstantTimeCompare([]byte(password), []byte(h.adminPassword)) != 1 {
		h.setAwaitingPassword(userID, true)
		h.sendMessage(message.Chat.ID, "❌ 密碼錯誤，請重新輸入：")
		return
	}

	h.setAdminAuthorized(userID, true)
	h.sendMessage(message.Chat.ID, "✅ 登入成功！\n\n"+h.getHelpMessage())
}
