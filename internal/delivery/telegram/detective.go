package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleDetectiveCommand kod bo'yicha katalog qatorlarini tekshirish
func (h *BotHandler) handleDetectiveCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		h.setAwaitingDetective(userID, true)
		h.sendMessage(message.Chat.ID, "🔍 請輸入要查的蝦皮商品編碼：\n\n例如：26203713538_81246286050")
		return
	}

	h.setAwaitingDetective(userID, false)
	h.sendDetectiveResults(ctx, message.Chat.ID, strings.Join(parts[1:], " "))
}

func (h *BotHandler) handleDetectiveInput(ctx context.Context, message *tgbotapi.Message) bool {
	userID := message.From.ID
	if !h.isAwaitingDetective(userID) {
		return false
	}

	query := strings.TrimSpace(message.Text)
	if query == "" {
		h.sendMessage(message.Chat.ID, "🔍 請輸入要查的蝦皮商品編碼。")
		return true
	}

	h.setAwaitingDetective(userID, false)
	h.sendDetectiveResults(ctx, message.Chat.ID, query)
	return true
}

func (h *BotHandler) sendDetectiveResults(ctx context.Context, chatID int64, code string) {
	entries, err := h.catalogUseCase.FindCode(ctx, code)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 查詢失敗：%v", err))
		return
	}
	if len(entries) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("🔍 成本表裡找不到編碼 %s。", code))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 編碼 %s 在成本表出現 %d 次：\n", code, len(entries)))
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("第 %d 列：%s\n", e.RowNo, e.MenuLabel()))
	}
	if len(entries) > 1 {
		sb.WriteString("⚠️ 重複編碼：匯入時以有成本的那列為準。")
	}
	h.sendMessage(chatID, sb.String())
}

func (h *BotHandler) setAwaitingDetective(userID int64, awaiting bool) {
	h.detectiveMu.Lock()
	if awaiting {
		h.detectiveAwait[userID] = true
	} else {
		delete(h.detectiveAwait, userID)
	}
	h.detectiveMu.Unlock()
}

func (h *BotHandler) isAwaitingDetective(userID int64) bool {
	h.detectiveMu.RLock()
	defer h.detectiveMu.RUnlock()
	return h.detectiveAwait[userID]
}
