package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yourusername/shopee-finance-bot/config"
	"github.com/yourusername/shopee-finance-bot/internal/delivery/telegram"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
	"github.com/yourusername/shopee-finance-bot/internal/infrastructure/gemini"
	"github.com/yourusername/shopee-finance-bot/internal/infrastructure/parser"
	"github.com/yourusername/shopee-finance-bot/internal/infrastructure/sheets"
	"github.com/yourusername/shopee-finance-bot/internal/infrastructure/storage"
	"github.com/yourusername/shopee-finance-bot/internal/usecase"
	"github.com/yourusername/shopee-finance-bot/pkg/logger"
)

func main() {
	initDefaultTimezone()

	// Logger ni ishga tushirish
	logger.Init()
	logger.InfoLogger.Println("🚀 Ilova ishga tushmoqda...")

	// Konfiguratsiyani yuklash
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Konfiguratsiya yuklanmadi: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if cfg.AllowEmptySecrets {
		if strings.TrimSpace(cfg.AdminPassword) == "" {
			cfg.AdminPassword = generateTempSecret(16)
			logger.InfoLogger.Printf("ADMIN_PASSWORD bo'sh. Vaqtinchalik parol: %s", cfg.AdminPassword)
		}

		missing := []string{}
		if isEmptyOrDisabled(cfg.TelegramToken) {
			missing = append(missing, "TELEGRAM_BOT_TOKEN")
		}
		if len(missing) > 0 {
			logger.InfoLogger.Printf("Secretlar yetishmayapti (%s). Bot vaqtincha ishga tushmaydi.", strings.Join(missing, ", "))
			<-sigChan
			return
		}
	}

	// Context yaratish
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dependencies ni yaratish (Dependency Injection)

	// 1. Sheet store (sheets / postgres / memory)
	var store repository.SheetStore
	switch cfg.StoreBackend {
	case "postgres":
		store, err = storage.NewPostgresSheetStore(storage.BuildPostgresDSNFromEnv())
		if err != nil {
			log.Fatalf("❌ Postgres store yaratilmadi: %v", err)
		}
	case "memory":
		store = storage.NewMemorySheetStore()
	default:
		store, err = sheets.NewStore(ctx, cfg.GoogleCredentialsFile)
		if err != nil {
			log.Fatalf("❌ Google Sheets store yaratilmadi: %v", err)
		}
	}
	logger.InfoLogger.Printf("✅ Sheet store tayyor (%s)", cfg.StoreBackend)

	// 2. Repositories
	memoryRepo := storage.NewSheetMemoryRepository(store, storage.TableAddress{
		SpreadsheetID: cfg.CostSpreadsheetID,
		Sheet:         cfg.MemorySheetName,
	})
	ledgerRepo := storage.NewSheetLedgerRepository(store, storage.TableAddress{
		SpreadsheetID: cfg.LedgerSpreadsheetID,
		Sheet:         cfg.LedgerSheetName,
	})
	catalogRepo := storage.NewSheetCatalogRepository(store, storage.TableAddress{
		SpreadsheetID: cfg.CostSpreadsheetID,
		Sheet:         cfg.CostSheetName,
	}, cfg.LegacySpreadsheetID)
	logger.InfoLogger.Println("✅ Repositories tayyor")

	// 3. Excel parser
	excelParser := parser.NewExcelParser(cfg.ExcelPassword)
	logger.InfoLogger.Println("✅ Excel parser tayyor")

	// 4. Gemini claim suggester (ixtiyoriy)
	var suggester repository.AIRepository
	if !isEmptyOrDisabled(cfg.GeminiAPIKey) {
		suggester, err = gemini.NewSuggester(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("❌ Gemini client yaratilmadi: %v", err)
		}
		defer suggester.Close()
		logger.InfoLogger.Println("✅ Gemini AI client tayyor (gemini-2.5-flash)")
	} else {
		logger.InfoLogger.Println("ℹ️ GEMINI_API_KEY yo'q, AI taklif o'chirilgan")
	}

	// 5. Use cases
	resolver := usecase.NewCostResolver(cfg.SpecialMarkers, cfg.DenyMarker)
	catalogUseCase := usecase.NewCatalogUseCase(catalogRepo, "商品編碼表")
	importUseCase := usecase.NewImportUseCase(excelParser, catalogUseCase, memoryRepo, ledgerRepo, resolver)
	claimUseCase := usecase.NewClaimUseCase(ledgerRepo, memoryRepo, resolver)
	statsUseCase := usecase.NewStatsUseCase(ledgerRepo, resolver)
	logger.InfoLogger.Println("✅ Use cases tayyor")

	// 6. Telegram bot handler
	botHandler, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		cfg.AdminPassword,
		importUseCase,
		claimUseCase,
		catalogUseCase,
		statsUseCase,
		suggester,
	)
	if err != nil {
		log.Fatalf("❌ Bot handler yaratilmadi: %v", err)
	}
	logger.InfoLogger.Printf("✅ Telegram bot tayyor: @%s", botHandler.GetBotUsername())

	// Botni alohida goroutine da ishga tushirish
	go func() {
		if err := botHandler.Start(ctx); err != nil {
			logger.ErrorLogger.Printf("❌ Bot xatosi: %v", err)
		}
	}()

	logger.InfoLogger.Println("🤖 Bot ishlayapti. To'xtatish uchun Ctrl+C ni bosing.")

	// Signal kutish
	<-sigChan
	logger.InfoLogger.Println("⏳ To'xtatish signali qabul qilindi...")

	// Graceful shutdown
	cancel()
	logger.InfoLogger.Println("✅ Bot to'xtatildi.")
}

func initDefaultTimezone() {
	const tzName = "Asia/Taipei"
	if loc, err := time.LoadLocation(tzName); err == nil {
		time.Local = loc
		return
	}
	time.Local = time.FixedZone(tzName, 8*60*60)
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}

func generateTempSecret(byteLen int) string {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "change-me"
	}
	return hex.EncodeToString(buf)
}
