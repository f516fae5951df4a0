package storage

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

// TableAddress locates one worksheet. An empty Sheet means the first
// worksheet of the spreadsheet.
type TableAddress struct {
	SpreadsheetID string
	Sheet         string
}

// --- memory rules ---

var memoryHeader = []string{"蝦皮商品名稱", "商品選項名稱", "真實SKU名稱", "真實成本"}

type sheetMemoryRepository struct {
	store repository.SheetStore
	addr  TableAddress
}

// NewSheetMemoryRepository memory-rule table over a SheetStore.
func NewSheetMemoryRepository(store repository.SheetStore, addr TableAddress) repository.MemoryRepository {
	return &sheetMemoryRepository{store: store, addr: addr}
}

func (r *sheetMemoryRepository) GetRules(ctx context.Context) (map[entity.MemoryKey]entity.MemoryRule, error) {
	if err := r.store.EnsureSheet(ctx, r.addr.SpreadsheetID, r.addr.Sheet); err != nil {
		return nil, err
	}
	grid, err := r.store.ReadAll(ctx, r.addr.SpreadsheetID, r.addr.Sheet)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		if err := r.store.AppendRows(ctx, r.addr.SpreadsheetID, r.addr.Sheet, [][]string{memoryHeader}); err != nil {
			return nil, err
		}
		return map[entity.MemoryKey]entity.MemoryRule{}, nil
	}

	rules := make(map[entity.MemoryKey]entity.MemoryRule)
	for _, row := range grid[1:] {
		var rule entity.MemoryRule
		switch {
		case len(row) >= 4:
			rule = entity.MemoryRule{
				ProductName: strings.TrimSpace(row[0]),
				OptionName:  strings.TrimSpace(row[1]),
				RealSKU:     strings.TrimSpace(row[2]),
				RealCost:    entity.ParseAmount(row[3]),
			}
		case len(row) == 3:
			// rows written before the option column existed
			rule = entity.MemoryRule{
				ProductName: strings.TrimSpace(row[0]),
				RealSKU:     strings.TrimSpace(row[1]),
				RealCost:    entity.ParseAmount(row[2]),
			}
		default:
			continue
		}
		if rule.ProductName == "" {
			continue
		}
		if _, ok := rules[rule.Key()]; !ok {
			rules[rule.Key()] = rule
		}
	}
	return rules, nil
}

func (r *sheetMemoryRepository) SaveRule(ctx context.Context, rule entity.MemoryRule) (bool, error) {
	rules, err := r.GetRules(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := rules[rule.Key()]; ok {
		return false, nil
	}
	row := []string{rule.ProductName, rule.OptionName, rule.RealSKU, entity.FormatAmount(rule.RealCost)}
	if err := r.store.AppendRows(ctx, r.addr.SpreadsheetID, r.addr.Sheet, [][]string{row}); err != nil {
		return false, err
	}
	return true, nil
}

// --- ledger ---

var ledgerHeader = []string{
	"訂單編號", "訂單成立日期", "商品名稱", "商品選項名稱", "數量",
	"售價", "成交手續費", "金流與系統處理費", "其他服務費", "蝦皮付費總金額",
	"進蝦皮錢包", "成本", "總利潤", "蝦皮商品編碼", "資料備份時間", "備註",
}

const backupTimeLayout = "2006-01-02 15:04:05"

type sheetLedgerRepository struct {
	store repository.SheetStore
	addr  TableAddress
}

// NewSheetLedgerRepository order ledger over a SheetStore.
func NewSheetLedgerRepository(store repository.SheetStore, addr TableAddress) repository.LedgerRepository {
	return &sheetLedgerRepository{store: store, addr: addr}
}

func itemToRow(item entity.LineItem) []string {
	backup := ""
	if !item.BackupAt.IsZero() {
		backup = item.BackupAt.Format(backupTimeLayout)
	}
	return []string{
		item.OrderID,
		item.OrderDate,
		item.ProductName,
		item.OptionName,
		strconv.Itoa(item.Quantity),
		entity.FormatAmount(item.Price),
		entity.FormatAmount(item.CommFee),
		entity.FormatAmount(item.PaymentFee),
		entity.FormatAmount(item.ServiceFee),
		entity.FormatAmount(item.TotalFee),
		entity.FormatAmount(item.Payout),
		entity.FormatAmount(item.Cost),
		entity.FormatAmount(item.Profit),
		item.SKUCode,
		backup,
		item.Note,
	}
}

func rowToItem(header map[string]int, row []string) entity.LineItem {
	cell := func(name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	item := entity.LineItem{
		OrderID:     strings.TrimSpace(cell("訂單編號")),
		OrderDate:   strings.TrimSpace(cell("訂單成立日期")),
		ProductName: cell("商品名稱"),
		OptionName:  cell("商品選項名稱"),
		SKUCode:     entity.CleanID(cell("蝦皮商品編碼")),
		Quantity:    int(entity.ParseAmount(cell("數量"))),
		Price:       entity.ParseAmount(cell("售價")),
		CommFee:     entity.ParseAmount(cell("成交手續費")),
		PaymentFee:  entity.ParseAmount(cell("金流與系統處理費")),
		ServiceFee:  entity.ParseAmount(cell("其他服務費")),
		TotalFee:    entity.ParseAmount(cell("蝦皮付費總金額")),
		Payout:      entity.ParseAmount(cell("進蝦皮錢包")),
		Cost:        entity.ParseAmount(cell("成本")),
		Profit:      entity.ParseAmount(cell("總利潤")),
		Note:        cell("備註"),
	}
	if t, err := time.Parse(backupTimeLayout, strings.TrimSpace(cell("資料備份時間"))); err == nil {
		item.BackupAt = t
	}
	return item
}

func (r *sheetLedgerRepository) Load(ctx context.Context) ([]entity.LineItem, error) {
	grid, err := r.store.ReadAll(ctx, r.addr.SpreadsheetID, r.addr.Sheet)
	if err != nil {
		return nil, err
	}
	if len(grid) <= 1 {
		return nil, nil
	}

	header := make(map[string]int, len(grid[0]))
	for i, h := range grid[0] {
		h = strings.TrimSpace(h)
		if _, ok := header[h]; !ok && h != "" {
			header[h] = i
		}
	}
	if _, ok := header["訂單編號"]; !ok {
		return nil, &entity.MissingFieldError{Table: "訂單總表", Field: "訂單編號"}
	}

	items := make([]entity.LineItem, 0, len(grid)-1)
	for _, row := range grid[1:] {
		items = append(items, rowToItem(header, row))
	}
	return items, nil
}

func itemsToRows(items []entity.LineItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemToRow(item))
	}
	return rows
}

func (r *sheetLedgerRepository) Append(ctx context.Context, items []entity.LineItem) error {
	return r.store.AppendRows(ctx, r.addr.SpreadsheetID, r.addr.Sheet, itemsToRows(items))
}

func (r *sheetLedgerRepository) Initialize(ctx context.Context, items []entity.LineItem) error {
	rows := append([][]string{ledgerHeader}, itemsToRows(items)...)
	return r.store.OverwriteAll(ctx, r.addr.SpreadsheetID, r.addr.Sheet, rows)
}

func (r *sheetLedgerRepository) ReplaceAll(ctx context.Context, items []entity.LineItem) error {
	return r.Initialize(ctx, items)
}

// --- cost catalog ---

type sheetCatalogRepository struct {
	store               repository.SheetStore
	addr                TableAddress
	legacySpreadsheetID string
}

// NewSheetCatalogRepository cost table over a SheetStore, plus read access
// to the legacy cost spreadsheet used by the rescue flow.
func NewSheetCatalogRepository(store repository.SheetStore, addr TableAddress, legacySpreadsheetID string) repository.CatalogRepository {
	return &sheetCatalogRepository{store: store, addr: addr, legacySpreadsheetID: legacySpreadsheetID}
}

func (r *sheetCatalogRepository) ReadGrid(ctx context.Context) ([][]string, error) {
	return r.store.ReadAll(ctx, r.addr.SpreadsheetID, r.addr.Sheet)
}

func (r *sheetCatalogRepository) AppendRows(ctx context.Context, rows [][]string) error {
	return r.store.AppendRows(ctx, r.addr.SpreadsheetID, r.addr.Sheet, rows)
}

func (r *sheetCatalogRepository) OverwriteGrid(ctx context.Context, rows [][]string) error {
	return r.store.OverwriteAll(ctx, r.addr.SpreadsheetID, r.addr.Sheet, rows)
}

func (r *sheetCatalogRepository) ReadLegacyGrids(ctx context.Context) ([][][]string, error) {
	if r.legacySpreadsheetID == "" {
		return nil, nil
	}
	names, err := r.store.ListSheets(ctx, r.legacySpreadsheetID)
	if err != nil {
		return nil, err
	}
	grids := make([][][]string, 0, len(names))
	for _, name := range names {
		grid, err := r.store.ReadAll(ctx, r.legacySpreadsheetID, name)
		if err != nil {
			return nil, err
		}
		grids = append(grids, grid)
	}
	return grids, nil
}
