package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *BotHandler) sendAndLog(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if h.bot == nil {
		return tgbotapi.Message{}, fmt.Errorf("telegram bot is nil")
	}
	return h.bot.Send(msg)
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	if h.bot == nil {
		log.Printf("sendMessage skipped (bot is nil) chat=%d", chatID)
		return
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("⚠️ Bo'sh xabar yuborilmoqchi bo'ldi! ChatID: %d", chatID)
		return
	}

	for _, chunk := range splitIntoChunks(text, 4096) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := h.sendAndLog(msg); err != nil {
			log.Printf("Xabar yuborishda xatolik: %v", err)
			return
		}
	}
}

// sendMessageWithMarkup inline keyboard bilan xabar yuborish
func (h *BotHandler) sendMessageWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) (*tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := h.sendAndLog(msg)
	if err != nil {
		log.Printf("Xabar yuborishda xatolik: %v", err)
		return nil, err
	}
	return &sent, nil
}

// editMessageWithMarkup mavjud xabarni matn va keyboard bilan yangilash
func (h *BotHandler) editMessageWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := h.bot.Request(edit); err != nil {
		log.Printf("Xabarni yangilashda xatolik: %v", err)
	}
}

func (h *BotHandler) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, messageID)
	_, _ = h.bot.Request(deleteMsg)
}

// splitIntoChunks matnni Telegram limitiga mos bo'lib yuborish uchun bo'ladi
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder

	for _, r := range s {
		current.WriteRune(r)
		if current.Len() >= limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
