package constants

// Spreadsheet table defaults (worksheet names follow the operator's sheets)
const (
	// DefaultMemorySheetName remembered claim mappings worksheet
	DefaultMemorySheetName = "歸戶記憶庫"

	// DefaultLedgerSheetName ledger worksheet inside the ledger spreadsheet
	DefaultLedgerSheetName = "蝦皮訂單總表"

	// MemorySheetRows / MemorySheetCols initial size when the worksheet is created
	MemorySheetRows = 100
	MemorySheetCols = 4
)

// Notes written into the 備註 column of the ledger
const (
	// NotePendingReview marks special rows awaiting manual reconciliation
	NotePendingReview = "待人工確認"

	// NoteClaimedPrefix manual reconciliation note, followed by the real label
	NoteClaimedPrefix = "已歸戶: "

	// NoteAutoClaimedPrefix auto reconciliation (memory rule / catalog match)
	NoteAutoClaimedPrefix = "已歸戶(自動): "

	// NoteClaimedMarker substring that identifies any reconciled row
	NoteClaimedMarker = "已歸戶"
)

// Admin constants
const (
	// MaxFileUploadSize maximum accepted upload size (bytes)
	MaxFileUploadSize = 5 * 1024 * 1024 // 5MB
)

// AI model constants (claim suggester)
const (
	// GeminiModelName Gemini model used for claim suggestions
	GeminiModelName = "gemini-2.5-flash"

	// AITemperature low temperature: the suggester must pick, not invent
	AITemperature = 0.1

	// AITopK Top-K sampling
	AITopK = 20

	// AITopP Top-P sampling
	AITopP = 0.9
)

// DefaultSpecialMarkers product-name substrings that flag a line item as a
// "special" (bundled / ambiguous) product requiring manual reconciliation.
var DefaultSpecialMarkers = []string{
	"7777下單信用卡專區",
	"chatgpt續約區",
	"ChatGPT",
	"美圖秀秀",
	"補運費",
	"補差價",
	"專屬賣場",
	"客製化",
	"1元賣場",
}

// DefaultDenyMarker names containing this substring must never be written
// into the memory-rule table (credit-card top-up area).
const DefaultDenyMarker = "7777"
