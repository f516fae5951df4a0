package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken     string
	AdminPassword     string
	ExcelPassword     string
	GeminiAPIKey      string
	AllowEmptySecrets bool

	// StoreBackend: "sheets" (default), "postgres" yoki "memory"
	StoreBackend string

	GoogleCredentialsFile string
	CostSpreadsheetID     string
	LedgerSpreadsheetID   string
	LegacySpreadsheetID   string

	CostSheetName   string // "" = birinchi worksheet
	LedgerSheetName string // "" = birinchi worksheet
	MemorySheetName string

	SpecialMarkers []string
	DenyMarker     string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		ExcelPassword:     os.Getenv("EXCEL_PASSWORD"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AllowEmptySecrets: getEnvBool("ALLOW_EMPTY_SECRETS", false),

		StoreBackend: getEnvDefault("STORE_BACKEND", "sheets"),

		GoogleCredentialsFile: getEnvDefault("GOOGLE_CREDENTIALS_FILE", "service_account.json"),
		CostSpreadsheetID:     os.Getenv("COST_SPREADSHEET_ID"),
		LedgerSpreadsheetID:   os.Getenv("LEDGER_SPREADSHEET_ID"),
		LegacySpreadsheetID:   os.Getenv("LEGACY_SPREADSHEET_ID"),

		CostSheetName:   strings.TrimSpace(os.Getenv("COST_SHEET_NAME")),
		LedgerSheetName: strings.TrimSpace(os.Getenv("LEDGER_SHEET_NAME")),
		MemorySheetName: getEnvDefault("MEMORY_SHEET_NAME", constants.DefaultMemorySheetName),

		DenyMarker: getEnvDefault("DENY_MARKER", constants.DefaultDenyMarker),
	}

	if raw := strings.TrimSpace(os.Getenv("SPECIAL_PRODUCTS")); raw != "" {
		for _, marker := range strings.Split(raw, ",") {
			if marker = strings.TrimSpace(marker); marker != "" {
				config.SpecialMarkers = append(config.SpecialMarkers, marker)
			}
		}
	} else {
		config.SpecialMarkers = append(config.SpecialMarkers, constants.DefaultSpecialMarkers...)
	}

	switch config.StoreBackend {
	case "sheets", "postgres", "memory":
	default:
		return nil, fmt.Errorf("STORE_BACKEND noto'g'ri: %q (sheets, postgres yoki memory)", config.StoreBackend)
	}

	// Validatsiya
	if !config.AllowEmptySecrets {
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
		}
		if config.AdminPassword == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD environment variable bo'sh")
		}
		if config.ExcelPassword == "" {
			return nil, fmt.Errorf("EXCEL_PASSWORD environment variable bo'sh")
		}
	}
	if config.StoreBackend == "sheets" {
		if config.CostSpreadsheetID == "" {
			return nil, fmt.Errorf("COST_SPREADSHEET_ID environment variable bo'sh")
		}
		if config.LedgerSpreadsheetID == "" {
			return nil, fmt.Errorf("LEDGER_SPREADSHEET_ID environment variable bo'sh")
		}
	}

	return config, nil
}

func getEnvDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}
