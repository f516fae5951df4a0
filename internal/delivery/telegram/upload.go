package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
)

func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	fileURL := file.Link(h.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	_ = ctx
	userID := message.From.ID

	if !h.isAdminAuthorized(userID) {
		h.sendMessage(message.Chat.ID, "❌ 只有管理員可以上傳檔案。請先 /admin 登入。")
		return
	}

	doc := message.Document

	if doc.FileSize > constants.MaxFileUploadSize {
		h.sendMessage(message.Chat.ID, "❌ 檔案不能超過 5MB！")
		return
	}

	if !strings.HasSuffix(doc.FileName, ".xlsx") && !strings.HasSuffix(doc.FileName, ".xls") {
		h.sendMessage(message.Chat.ID, "❌ 只接受 Excel 檔案 (.xlsx, .xls)！")
		return
	}

	if h.isProcessing(userID) {
		h.sendMessage(message.Chat.ID, "⏳ 上一個檔案還在處理中，請稍候。")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ 檔案下載與處理中… 可能需要幾分鐘。")

	fileBytes, err := h.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ 下載檔案時發生錯誤。")
		return
	}

	h.setProcessing(userID, true)

	// Run the import in a separate goroutine to avoid blocking the bot.
	go func() {
		defer h.setProcessing(userID, false)
		goroutineCtx := context.Background()

		// mass_update nomli fayl mahsulot eksporti, katalog sync qilamiz
		if strings.Contains(strings.ToLower(doc.FileName), "mass_update") {
			added, err := h.importUseCase.SyncProducts(goroutineCtx, fileBytes)
			if err != nil {
				log.Printf("Product sync error: %v", err)
				h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ 商品同步失敗：%v", err))
				return
			}
			h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ 商品同步完成！新增 %d 筆商品到成本表（成本待補）。", added))
			return
		}

		summary, err := h.importUseCase.ProcessReport(goroutineCtx, fileBytes)
		if err != nil {
			log.Printf("Import error: %v", err)
			h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ 匯入失敗：%v", err))
			return
		}

		var sb strings.Builder
		if summary.Initialized {
			sb.WriteString("✅ 總表是空的，已用這份報表初始化！\n")
		} else {
			sb.WriteString("✅ 匯入完成！\n")
		}
		sb.WriteString(fmt.Sprintf("批次: %s\n", summary.BatchID))
		sb.WriteString(fmt.Sprintf("新增: %d 筆\n", summary.Accepted))
		sb.WriteString(fmt.Sprintf("重複略過: %d 筆\n", summary.Skipped))
		if summary.Specials > 0 {
			sb.WriteString(fmt.Sprintf("特殊商品: %d 筆（自動歸戶 %d 筆）\n", summary.Specials, summary.AutoClaimed))
			if summary.Specials > summary.AutoClaimed {
				sb.WriteString("👉 /claim 處理剩下的待確認商品")
			}
		}
		h.sendMessage(message.Chat.ID, sb.String())
	}()
}

func (h *BotHandler) isProcessing(userID int64) bool {
	h.processingMu.RLock()
	defer h.processingMu.RUnlock()
	return h.processing[userID]
}

func (h *BotHandler) setProcessing(userID int64, busy bool) {
	h.processingMu.Lock()
	if busy {
		h.processing[userID] = true
	} else {
		delete(h.processing, userID)
	}
	h.processingMu.Unlock()
}
