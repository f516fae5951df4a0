package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

// handleClaimCommand kutilayotgan maxsus buyurtmalar ro'yxatini ko'rsatish
func (h *BotHandler) handleClaimCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	pending, err := h.claimUseCase.PendingSpecials(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 讀取總表失敗：%v", err))
		return
	}
	if len(pending) == 0 {
		h.sendMessage(chatID, "🎉 沒有待歸戶的特殊商品！")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, item := range pending {
		if i >= 10 {
			break
		}
		label := truncateLabel(fmt.Sprintf("%s | %s", item.OrderID, item.ProductName), 56)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "claim_pick|"+item.OrderID),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := fmt.Sprintf("📋 待歸戶特殊商品：%d 筆\n請選擇要處理的訂單：", len(pending))
	if len(pending) > 10 {
		text += "\n（先顯示前 10 筆，處理完再 /claim）"
	}
	if _, err := h.sendMessageWithMarkup(chatID, text, markup); err != nil {
		log.Printf("claim list send error: %v", err)
	}
}

// startClaimSession tanlangan buyurtma uchun katalog menyusini ochish
func (h *BotHandler) startClaimSession(ctx context.Context, cq *tgbotapi.CallbackQuery, orderID string) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	pending, err := h.claimUseCase.PendingSpecials(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 讀取總表失敗：%v", err))
		return
	}
	var picked *entity.LineItem
	for i := range pending {
		if strings.TrimSpace(pending[i].OrderID) == orderID {
			picked = &pending[i]
			break
		}
	}
	if picked == nil {
		h.sendMessage(chatID, "ℹ️ 這筆訂單已經不在待歸戶清單了。")
		return
	}

	table, err := h.catalogUseCase.LoadCostTable(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 讀取成本表失敗：%v", err))
		return
	}
	if len(table.Entries) == 0 {
		h.sendMessage(chatID, "❌ 成本表是空的，請先上傳 mass_update 商品檔。")
		return
	}

	session := &claimSession{
		OrderID:     orderID,
		ProductName: picked.ProductName,
		OptionName:  picked.OptionName,
		Entries:     table.Entries,
		Selected:    -1,
		Remember:    true,
	}
	h.setClaimSession(userID, session)

	text, markup := h.buildClaimMenu(*session)
	h.editMessageWithMarkup(chatID, cq.Message.MessageID, text, markup)
}

// buildClaimMenu sessiya snapshotidan menyu matni va keyboard qurish.
// Qiymat nusxa oladi: render paytida sessiyaga tegmaydi.
func (h *BotHandler) buildClaimMenu(session claimSession) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("🔎 歸戶訂單 " + session.OrderID + "\n")
	sb.WriteString("商品：" + session.ProductName + "\n")
	if session.OptionName != "" {
		sb.WriteString("選項：" + session.OptionName + "\n")
	}
	if session.Suggested != "" {
		sb.WriteString("🤖 AI 建議：" + session.Suggested + "\n")
	}
	if session.Selected >= 0 && session.Selected < len(session.Entries) {
		sb.WriteString("✅ 已選：" + session.Entries[session.Selected].MenuLabel() + "\n")
	}
	sb.WriteString("請選擇真實商品：")

	totalPages := (len(session.Entries) + claimPageSize - 1) / claimPageSize
	session.clampPage()
	start := session.Page * claimPageSize
	end := start + claimPageSize
	if end > len(session.Entries) {
		end = len(session.Entries)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := start; i < end; i++ {
		label := truncateLabel(session.Entries[i].MenuLabel(), 56)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "claim_cost|"+strconv.Itoa(i)),
		))
	}

	if totalPages > 1 {
		nav := []tgbotapi.InlineKeyboardButton{}
		if session.Page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ 上一頁", "claim_page|prev"))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d/%d", session.Page+1, totalPages), "claim_noop"))
		if session.Page < totalPages-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("下一頁 ➡️", "claim_page|next"))
		}
		rows = append(rows, nav)
	}

	rememberLabel := "☑️ 記住這個歸戶"
	if !session.Remember {
		rememberLabel = "⬜ 記住這個歸戶"
	}
	controls := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(rememberLabel, "claim_remember"),
	}
	if h.suggester != nil && session.Suggested == "" {
		controls = append(controls, tgbotapi.NewInlineKeyboardButtonData("🤖 AI 建議", "claim_ai"))
	}
	rows = append(rows, controls)

	actions := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("❌ 取消", "claim_cancel"),
	}
	if session.Selected >= 0 {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("✅ 確認歸戶", "claim_apply"))
	}
	rows = append(rows, actions)

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// applyClaim tanlangan katalog qatorini buyurtmaga yozish
func (h *BotHandler) applyClaim(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	session, ok := h.getClaimSession(userID)
	if !ok || session.Selected < 0 || session.Selected >= len(session.Entries) {
		h.sendMessage(chatID, "ℹ️ 沒有進行中的歸戶，請重新 /claim。")
		return
	}
	entry := session.Entries[session.Selected]

	err := h.claimUseCase.Claim(ctx, session.OrderID, entry.Name, entry.Cost, session.Remember)
	if err != nil && !errors.Is(err, entity.ErrDenylistedRemember) {
		h.sendMessage(chatID, fmt.Sprintf("❌ 歸戶失敗：%v", err))
		return
	}

	h.clearClaimSession(userID)
	edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID,
		fmt.Sprintf("✅ 訂單 %s 已歸戶為：%s", session.OrderID, entry.MenuLabel()))
	if _, err := h.bot.Request(edit); err != nil {
		log.Printf("claim edit error: %v", err)
	}

	if errors.Is(err, entity.ErrDenylistedRemember) {
		h.sendMessage(chatID, "⚠️ 這個商品在拒絕記憶名單內（7777 專區），歸戶已完成但不會寫入記憶庫。")
	}
}

// requestClaimSuggestion Gemini dan katalog labelini so'rash
func (h *BotHandler) requestClaimSuggestion(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	session, ok := h.getClaimSession(userID)
	if !ok || h.suggester == nil {
		return
	}

	labels := make([]string, 0, len(session.Entries))
	labelIndex := make(map[string]int, len(session.Entries))
	for i, e := range session.Entries {
		label := e.MenuLabel()
		labels = append(labels, label)
		labelIndex[label] = i
	}

	suggested, err := h.suggester.SuggestClaim(ctx, session.ProductName, session.OptionName, labels)
	if err != nil {
		log.Printf("claim suggestion error: %v", err)
		h.sendMessage(chatID, "⚠️ AI 建議暫時無法使用。")
		return
	}
	if suggested == "" {
		h.sendMessage(chatID, "🤖 AI 沒有找到合適的商品，請手動選擇。")
		return
	}

	// Sessiya tarmoq chaqiruvi davomida bekor qilingan bo'lishi mumkin
	snap, ok := h.updateClaimSession(userID, func(s *claimSession) {
		s.Suggested = suggested
		if idx, ok := labelIndex[suggested]; ok {
			s.Selected = idx
			s.Page = idx / claimPageSize
		}
	})
	if !ok {
		return
	}
	text, markup := h.buildClaimMenu(snap)
	h.editMessageWithMarkup(chatID, cq.Message.MessageID, text, markup)
}

// getClaimSession sessiya snapshotini qaytaradi; maydonlarni o'zgartirish
// faqat updateClaimSession orqali
func (h *BotHandler) getClaimSession(userID int64) (claimSession, bool) {
	h.claimMu.RLock()
	defer h.claimMu.RUnlock()
	session, ok := h.claimSessions[userID]
	if !ok {
		return claimSession{}, false
	}
	return *session, true
}

// updateClaimSession fn ni lock ostida bajaradi va yangilangan snapshotni
// qaytaradi. Parallel callbacklar shu yo'l bilan serializatsiya qilinadi.
func (h *BotHandler) updateClaimSession(userID int64, fn func(*claimSession)) (claimSession, bool) {
	h.claimMu.Lock()
	defer h.claimMu.Unlock()
	session, ok := h.claimSessions[userID]
	if !ok {
		return claimSession{}, false
	}
	fn(session)
	return *session, true
}

func (h *BotHandler) setClaimSession(userID int64, session *claimSession) {
	h.claimMu.Lock()
	h.claimSessions[userID] = session
	h.claimMu.Unlock()
}

func (h *BotHandler) clearClaimSession(userID int64) {
	h.claimMu.Lock()
	delete(h.claimSessions, userID)
	h.claimMu.Unlock()
}

// truncateLabel Telegram tugma matni limitiga moslashtirish
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
