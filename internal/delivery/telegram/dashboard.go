package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

// handleDashboardCommand sanalar menyusini ko'rsatish
func (h *BotHandler) handleDashboardCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	dates, err := h.statsUseCase.Dates(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 讀取總表失敗：%v", err))
		return
	}
	if len(dates) == 0 {
		h.sendMessage(chatID, "ℹ️ 總表還沒有任何訂單，先上傳報表吧。")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, date := range dates {
		if i >= 14 {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 "+date, "dash_date|"+date),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := "📊 每日報表\n請選擇日期："
	if len(dates) > 14 {
		text += fmt.Sprintf("\n（共 %d 天，先顯示最近 14 天）", len(dates))
	}
	if _, err := h.sendMessageWithMarkup(chatID, text, markup); err != nil {
		log.Printf("dashboard menu send error: %v", err)
	}
}

// showDailyDashboard bitta kunning hisobasini ko'rsatish
func (h *BotHandler) showDailyDashboard(ctx context.Context, cq *tgbotapi.CallbackQuery, date string) {
	chatID := cq.Message.Chat.ID

	stats, err := h.statsUseCase.Daily(ctx, date)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 統計失敗：%v", err))
		return
	}

	text := formatDailyStats(stats)
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 匯出 Excel", "dash_export|"+date),
		),
	)
	h.editMessageWithMarkup(chatID, cq.Message.MessageID, text, markup)
}

func formatDailyStats(stats *entity.DailyStats) string {
	var sb strings.Builder
	sb.WriteString("📊 " + stats.Date + " 日報\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("訂單數：%d 筆\n", stats.Orders))
	sb.WriteString(fmt.Sprintf("營收：$%s\n", entity.FormatAmount(stats.Revenue)))
	sb.WriteString(fmt.Sprintf("成本：$%s\n", entity.FormatAmount(stats.Cost)))
	sb.WriteString(fmt.Sprintf("利潤：$%s\n", entity.FormatAmount(stats.Profit)))
	sb.WriteString(fmt.Sprintf("毛利率：%.1f%%\n", stats.Margin))
	if len(stats.Unresolved) > 0 {
		sb.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
		sb.WriteString(fmt.Sprintf("⚠️ 待歸戶：%d 筆（未計入以上金額）\n", len(stats.Unresolved)))
		for i, item := range stats.Unresolved {
			if i >= 5 {
				sb.WriteString(fmt.Sprintf("… 還有 %d 筆\n", len(stats.Unresolved)-5))
				break
			}
			sb.WriteString("• " + truncateLabel(item.ProductName, 30) + "\n")
		}
		sb.WriteString("👉 /claim 處理")
	}
	return sb.String()
}

// exportDailyDashboard kunlik detallarni XLSX fayl sifatida yuborish
func (h *BotHandler) exportDailyDashboard(ctx context.Context, cq *tgbotapi.CallbackQuery, date string) {
	chatID := cq.Message.Chat.ID

	stats, err := h.statsUseCase.Daily(ctx, date)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ 統計失敗：%v", err))
		return
	}

	xlsxBytes, err := buildDailyExportXLSX(stats)
	if err != nil {
		log.Printf("daily export xlsx error: %v", err)
		h.sendMessage(chatID, "❌ Excel 檔案產生失敗。")
		return
	}

	filename := fmt.Sprintf("daily_%s_%s.xlsx", date, time.Now().Format("150405"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: xlsxBytes})
	doc.Caption = fmt.Sprintf("📊 %s 日報明細\n訂單 %d 筆，利潤 $%s",
		date, stats.Orders, entity.FormatAmount(stats.Profit))
	if _, err := h.sendAndLog(doc); err != nil {
		log.Printf("daily export send error: %v", err)
		h.sendMessage(chatID, "❌ Excel 檔案傳送失敗。")
	}
}

var dailyExportHeaders = []string{
	"訂單編號", "商品名稱", "商品選項名稱", "數量", "售價", "進蝦皮錢包", "成本", "總利潤", "備註",
}

func buildDailyExportXLSX(stats *entity.DailyStats) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, header := range dailyExportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	rows := append(append([]entity.LineItem{}, stats.Items...), stats.Unresolved...)
	for i, item := range rows {
		values := []interface{}{
			item.OrderID,
			item.ProductName,
			item.OptionName,
			item.Quantity,
			item.Price,
			item.Payout,
			item.Cost,
			item.Profit,
			item.Note,
		}
		rowIdx := i + 2
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
