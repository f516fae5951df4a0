package telegram

import (
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
	"github.com/yourusername/shopee-finance-bot/internal/usecase"
)

// BotHandler Telegram bot handler
type BotHandler struct {
	bot           *tgbotapi.BotAPI
	adminPassword string

	importUseCase  usecase.ImportUseCase
	claimUseCase   usecase.ClaimUseCase
	catalogUseCase usecase.CatalogUseCase
	statsUseCase   usecase.StatsUseCase
	suggester      repository.AIRepository // nil bo'lsa AI taklif o'chirilgan

	// Admin login kutilayotgan userlar
	mu               sync.RWMutex
	awaitingPassword map[int64]bool
	adminAuthMu      sync.RWMutex
	adminAuthorized  map[int64]bool

	claimMu       sync.RWMutex
	claimSessions map[int64]*claimSession

	processingMu sync.RWMutex
	processing   map[int64]bool

	detectiveMu    sync.RWMutex
	detectiveAwait map[int64]bool

	// Bot start timestamp
	botStartedAt time.Time
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	adminPassword string,
	importUseCase usecase.ImportUseCase,
	claimUseCase usecase.ClaimUseCase,
	catalogUseCase usecase.CatalogUseCase,
	statsUseCase usecase.StatsUseCase,
	suggester repository.AIRepository,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	handler := &BotHandler{
		bot:              bot,
		adminPassword:    adminPassword,
		importUseCase:    importUseCase,
		claimUseCase:     claimUseCase,
		catalogUseCase:   catalogUseCase,
		statsUseCase:     statsUseCase,
		suggester:        suggester,
		awaitingPassword: make(map[int64]bool),
		adminAuthorized:  make(map[int64]bool),
		claimSessions:    make(map[int64]*claimSession),
		processing:       make(map[int64]bool),
		detectiveAwait:   make(map[int64]bool),
		botStartedAt:     time.Now(),
	}

	return handler, nil
}

// GetBotUsername returns the bot's username from Telegram API state.
func (h *BotHandler) GetBotUsername() string {
	return h.bot.Self.UserName
}
