package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil {
		return
	}
	userID := message.From.ID
	cmd := extractCommand(message)
	if cmd == "" {
		h.sendMessage(message.Chat.ID, "未知的指令。/help 查詢用法。")
		return
	}

	switch cmd {
	case "start":
		h.sendMessage(message.Chat.ID, h.getStartMessage())
	case "help":
		h.sendMessage(message.Chat.ID, h.getHelpMessage())
	case "admin":
		h.handleAdminCommand(ctx, message)
	case "logout":
		h.handleLogoutCommand(ctx, message)
	case "claim":
		h.requireAdmin(userID, message.Chat.ID, func() {
			h.handleClaimCommand(ctx, message)
		})
	case "dashboard", "stats":
		h.requireAdmin(userID, message.Chat.ID, func() {
			h.handleDashboardCommand(ctx, message)
		})
	case "rescue":
		h.requireAdmin(userID, message.Chat.ID, func() {
			h.handleRescueCommand(ctx, message)
		})
	case "detective", "find":
		h.requireAdmin(userID, message.Chat.ID, func() {
			h.handleDetectiveCommand(ctx, message)
		})
	default:
		h.sendMessage(message.Chat.ID, "未知的指令。/help 查詢用法。")
	}
}

// requireAdmin admin bo'lmagan userlarga komandani yopish
func (h *BotHandler) requireAdmin(userID, chatID int64, fn func()) {
	if !h.isAdminAuthorized(userID) {
		h.sendMessage(chatID, "❌ 這個指令只開放給管理員。請先 /admin 登入。")
		return
	}
	fn()
}

// handleAdminCommand admin login boshlash
func (h *BotHandler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	_ = ctx
	userID := message.From.ID

	// /admin xabarini tozalash (parol oqimi ochiq qolmasin)
	h.deleteMessage(message.Chat.ID, message.MessageID)

	if h.isAdminAuthorized(userID) {
		h.sendMessage(message.Chat.ID, "✅ 已經是管理員了。\n\n"+h.getHelpMessage())
		return
	}

	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 請輸入管理員密碼：")
}

func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	_ = ctx
	userID := message.From.ID
	if !h.isAdminAuthorized(userID) {
		h.sendMessage(message.Chat.ID, "您不是管理員。")
		return
	}
	h.setAdminAuthorized(userID, false)
	h.setAwaitingPassword(userID, false)
	h.clearClaimSession(userID)
	h.setAwaitingDetective(userID, false)
	h.sendMessage(message.Chat.ID, "✅ 已登出管理員。")
}

// handleRescueCommand legacy cost jadvallardan 0 costlarni to'ldirish
func (h *BotHandler) handleRescueCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	h.sendMessage(chatID, "⏳ 正在從舊成本表搜尋缺漏的成本…")

	updated, err := h.catalogUseCase.RescueLegacyCosts(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 舊成本救援失敗：%v", err))
		return
	}
	if updated == 0 {
		h.sendMessage(chatID, "ℹ️ 沒有找到可以補上的成本。")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ 舊成本救援完成！補上了 %d 筆成本。", updated))
}

func (h *BotHandler) getStartMessage() string {
	return `👋 蝦皮利潤管家

上傳蝦皮訂單報表 (.xlsx) 就會自動匯入總表並計算利潤。
檔名含 mass_update 的商品匯出檔會同步新商品到成本表。

/admin - 管理員登入
/help - 指令一覽`
}

func (h *BotHandler) getHelpMessage() string {
	return `📖 指令一覽

/claim - 歸戶待確認的特殊商品
/dashboard - 每日營收/利潤報表
/rescue - 從舊成本表補成本
/detective - 查詢商品編碼的所有成本列
/logout - 登出管理員

直接上傳 .xlsx 訂單報表即可匯入。`
}

func extractCommand(message *tgbotapi.Message) string {
	if message.IsCommand() {
		return strings.ToLower(message.Command())
	}
	text := strings.TrimSpace(message.Text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	fields := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(fields) == 0 {
		return ""
	}
	cmd := fields[0]
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
