package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback query larini qayta ishlash
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	data := cq.Data
	chatID := cq.Message.Chat.ID

	// Callback ga javob (spinnerni to'xtatish)
	callback := tgbotapi.NewCallback(cq.ID, "")
	if _, err := h.bot.Request(callback); err != nil {
		log.Printf("Callback javobida xatolik: %v", err)
	}

	if !h.isAdminAuthorized(userID) {
		h.sendMessage(chatID, "❌ 請先 /admin 登入。")
		return
	}

	switch {
	case strings.HasPrefix(data, "claim_pick|"):
		h.startClaimSession(ctx, cq, strings.TrimPrefix(data, "claim_pick|"))

	case strings.HasPrefix(data, "claim_cost|"):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, "claim_cost|"))
		if err != nil {
			return
		}
		snap, ok := h.updateClaimSession(userID, func(s *claimSession) {
			if idx >= 0 && idx < len(s.Entries) {
				s.Selected = idx
			}
		})
		if !ok {
			h.sendMessage(chatID, "ℹ️ 沒有進行中的歸戶，請重新 /claim。")
			return
		}
		if snap.Selected != idx {
			return
		}
		text, markup := h.buildClaimMenu(snap)
		h.editMessageWithMarkup(chatID, cq.Message.MessageID, text, markup)

	case strings.HasPrefix(data, "claim_page|"):
		dir := strings.TrimPrefix(data, "claim_page|")
		snap, ok := h.updateClaimSession(userID, func(s *claimSession) {
			if dir == "prev" {
				s.Page--
			} else {
				s.Page++
			}
			s.clampPage()
		})
		if !ok {
			return
		}
		text, markup := h.buildClaimMenu(snap)
		h.editMessageWithMarkup(chatID, cq.Message.MessageID, text, markup)

	case data == "claim_remember":
		snap, ok := h.updateClaimSession(userID, func(s *claimSession) {
			s.Remember = !s.Remember
		})
		if !ok {
			return
		}
		text, markup := h.buildClaimMenu(snap)
		h.editMessageWithMarkup(chatID, cq.Message.MessageID, text, markup)

	case data == "claim_ai":
		h.requestClaimSuggestion(ctx, cq)

	case data == "claim_apply":
		h.applyClaim(ctx, cq)

	case data == "claim_cancel":
		h.clearClaimSession(userID)
		edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, "❎ 已取消歸戶。")
		if _, err := h.bot.Request(edit); err != nil {
			log.Printf("claim cancel edit error: %v", err)
		}

	case data == "claim_noop":
		// Sahifa raqami tugmasi

	case strings.HasPrefix(data, "dash_date|"):
		h.showDailyDashboard(ctx, cq, strings.TrimPrefix(data, "dash_date|"))

	case strings.HasPrefix(data, "dash_export|"):
		h.exportDailyDashboard(ctx, cq, strings.TrimPrefix(data, "dash_export|"))
	}
}
