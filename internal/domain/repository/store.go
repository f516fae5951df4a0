package repository

import (
	"context"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

// SheetStore key-value table abstraction over a spreadsheet-like backend.
// Tables are addressed by spreadsheet ID and worksheet name ("" = first
// worksheet). Row 0 is the header row; header presence is validated by the
// callers, never assumed. The backing store has no transactional isolation:
// two operators acting concurrently can race. That is a documented caller
// responsibility, not something this interface solves.
type SheetStore interface {
	// ReadAll returns every row of the worksheet, header included.
	ReadAll(ctx context.Context, spreadsheetID, sheet string) ([][]string, error)

	// AppendRows appends rows after the current last row.
	AppendRows(ctx context.Context, spreadsheetID, sheet string, rows [][]string) error

	// OverwriteAll clears the worksheet and writes rows from the top.
	OverwriteAll(ctx context.Context, spreadsheetID, sheet string, rows [][]string) error

	// EnsureSheet creates the worksheet when it does not exist yet.
	EnsureSheet(ctx context.Context, spreadsheetID, sheet string) error

	// ListSheets returns the worksheet names of a spreadsheet.
	ListSheets(ctx context.Context, spreadsheetID string) ([]string, error)
}

// MemoryRepository remembered manual mappings, keyed (product, option).
type MemoryRepository interface {
	// GetRules loads every remembered rule. A missing worksheet is created
	// empty, not treated as an error.
	GetRules(ctx context.Context) (map[entity.MemoryKey]entity.MemoryRule, error)

	// SaveRule persists a rule unless its key already exists. Returns true
	// when the rule was written.
	SaveRule(ctx context.Context, rule entity.MemoryRule) (bool, error)
}

// LedgerRepository the append-only order ledger, keyed by order ID.
type LedgerRepository interface {
	// Load returns every persisted ledger row.
	Load(ctx context.Context) ([]entity.LineItem, error)

	// Append adds rows to the end of the ledger, never touching prior rows.
	Append(ctx context.Context, items []entity.LineItem) error

	// Initialize writes header plus rows into an empty ledger.
	Initialize(ctx context.Context, items []entity.LineItem) error

	// ReplaceAll rewrites the whole ledger. Only the manual-claim path uses
	// this, to mutate one row's cost/profit/note in place.
	ReplaceAll(ctx context.Context, items []entity.LineItem) error
}

// CatalogRepository raw access to the product-cost table. Header heuristics,
// cleanID normalization and duplicate handling live in the catalog usecase;
// the repository only moves grids.
type CatalogRepository interface {
	ReadGrid(ctx context.Context) ([][]string, error)
	AppendRows(ctx context.Context, rows [][]string) error
	OverwriteGrid(ctx context.Context, rows [][]string) error

	// ReadLegacyGrids returns the grid of every worksheet in the legacy cost
	// spreadsheet, in sheet order. Used by the cost-rescue flow.
	ReadLegacyGrids(ctx context.Context) ([][][]string, error)
}
