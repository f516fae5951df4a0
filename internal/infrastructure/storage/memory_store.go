package storage

import (
	"context"
	"sync"

	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

type memorySheetStore struct {
	mu     sync.RWMutex
	tables map[string]map[string][][]string // spreadsheet ID -> worksheet -> grid
	order  map[string][]string              // worksheet insertion order per spreadsheet
}

// NewMemorySheetStore in-memory SheetStore for tests and local development.
func NewMemorySheetStore() repository.SheetStore {
	return &memorySheetStore{
		tables: make(map[string]map[string][][]string),
		order:  make(map[string][]string),
	}
}

func (m *memorySheetStore) sheetLocked(spreadsheetID, sheet string, create bool) ([][]string, bool) {
	book, ok := m.tables[spreadsheetID]
	if !ok {
		if !create {
			return nil, false
		}
		book = make(map[string][][]string)
		m.tables[spreadsheetID] = book
	}
	grid, ok := book[sheet]
	if !ok && create {
		book[sheet] = nil
		m.order[spreadsheetID] = append(m.order[spreadsheetID], sheet)
	}
	return grid, ok || create
}

func copyGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (m *memorySheetStore) ReadAll(_ context.Context, spreadsheetID, sheet string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	grid, _ := m.sheetExistingLocked(spreadsheetID, sheet)
	return copyGrid(grid), nil
}

func (m *memorySheetStore) sheetExistingLocked(spreadsheetID, sheet string) ([][]string, bool) {
	book, ok := m.tables[spreadsheetID]
	if !ok {
		return nil, false
	}
	grid, ok := book[sheet]
	return grid, ok
}

func (m *memorySheetStore) AppendRows(_ context.Context, spreadsheetID, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, _ := m.sheetLocked(spreadsheetID, sheet, true)
	m.tables[spreadsheetID][sheet] = append(grid, copyGrid(rows)...)
	return nil
}

func (m *memorySheetStore) OverwriteAll(_ context.Context, spreadsheetID, sheet string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheetLocked(spreadsheetID, sheet, true)
	m.tables[spreadsheetID][sheet] = copyGrid(rows)
	return nil
}

func (m *memorySheetStore) EnsureSheet(_ context.Context, spreadsheetID, sheet string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheetLocked(spreadsheetID, sheet, true)
	return nil
}

func (m *memorySheetStore) ListSheets(_ context.Context, spreadsheetID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order[spreadsheetID]...), nil
}
