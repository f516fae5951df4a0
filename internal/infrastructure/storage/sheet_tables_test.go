package storage

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	store := NewMemorySheetStore()
	repo := NewSheetMemoryRepository(store, TableAddress{SpreadsheetID: "cost", Sheet: "歸戶記憶庫"})
	ctx := context.Background()

	rules, err := repo.GetRules(ctx)
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("len(rules) = %d, want 0", len(rules))
	}

	written, err := repo.SaveRule(ctx, entity.MemoryRule{
		ProductName: "ChatGPT續約區", OptionName: "一個月", RealSKU: "GPT月費", RealCost: 450,
	})
	if err != nil {
		t.Fatalf("SaveRule() error = %v", err)
	}
	if !written {
		t.Fatal("SaveRule() = false, want true")
	}

	// Takroriy key yozilmaydi
	written, err = repo.SaveRule(ctx, entity.MemoryRule{
		ProductName: "ChatGPT續約區", OptionName: "一個月", RealSKU: "boshqa", RealCost: 1,
	})
	if err != nil {
		t.Fatalf("SaveRule() dup error = %v", err)
	}
	if written {
		t.Fatal("SaveRule() dup = true, want false")
	}

	rules, err = repo.GetRules(ctx)
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	rule, ok := rules[entity.MemoryKey{ProductName: "ChatGPT續約區", OptionName: "一個月"}]
	if !ok {
		t.Fatal("saved rule not found")
	}
	if rule.RealSKU != "GPT月費" || rule.RealCost != 450 {
		t.Fatalf("rule = %+v", rule)
	}
}

func TestMemoryRepository_ReadsLegacyThreeColumnRows(t *testing.T) {
	store := NewMemorySheetStore()
	ctx := context.Background()
	addr := TableAddress{SpreadsheetID: "cost", Sheet: "歸戶記憶庫"}
	if err := store.EnsureSheet(ctx, addr.SpreadsheetID, addr.Sheet); err != nil {
		t.Fatalf("EnsureSheet() error = %v", err)
	}
	if err := store.AppendRows(ctx, addr.SpreadsheetID, addr.Sheet, [][]string{
		{"蝦皮商品名稱", "真實SKU名稱", "真實成本"},
		{"舊商品", "真實A", "120"},
	}); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	repo := NewSheetMemoryRepository(store, addr)
	rules, err := repo.GetRules(ctx)
	if err != nil {
		t.Fatalf("GetRules() error = %v", err)
	}
	rule, ok := rules[entity.MemoryKey{ProductName: "舊商品"}]
	if !ok {
		t.Fatal("legacy rule not found under empty option")
	}
	if rule.RealSKU != "真實A" || rule.RealCost != 120 {
		t.Fatalf("rule = %+v", rule)
	}
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	store := NewMemorySheetStore()
	repo := NewSheetLedgerRepository(store, TableAddress{SpreadsheetID: "ledger"})
	ctx := context.Background()

	backup := time.Date(2026, 8, 1, 12, 30, 0, 0, time.Local)
	items := []entity.LineItem{
		{
			OrderID: "1001", OrderDate: "2026-08-01 10:00", ProductName: "商品A",
			OptionName: "紅色", SKUCode: "100_200", Quantity: 2, Price: 200,
			CommFee: 5, PaymentFee: 2, ServiceFee: 3, TotalFee: 10,
			Payout: 190, Cost: 40, Profit: 110, Note: "已歸戶(自動): 商品A",
			BackupAt: backup,
		},
	}
	if err := repo.Initialize(ctx, items); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("len(loaded) = %d, want 1", len(loaded))
	}
	got := loaded[0]
	if got.OrderID != "1001" || got.SKUCode != "100_200" || got.Quantity != 2 {
		t.Fatalf("loaded = %+v", got)
	}
	if got.Payout != 190 || got.Cost != 40 || got.Profit != 110 {
		t.Fatalf("money fields = %+v", got)
	}
	if got.BackupAt.Format("2006-01-02 15:04:05") != "2026-08-01 12:30:00" {
		t.Fatalf("backup at = %v, want 2026-08-01 12:30:00", got.BackupAt)
	}

	if err := repo.Append(ctx, []entity.LineItem{{OrderID: "1002", ProductName: "商品B", Quantity: 1}}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after append error = %v", err)
	}
	if len(loaded) != 2 || loaded[1].OrderID != "1002" {
		t.Fatalf("loaded after append = %+v", loaded)
	}
}

func TestLedgerRepository_LoadRequiresOrderColumn(t *testing.T) {
	store := NewMemorySheetStore()
	ctx := context.Background()
	if err := store.EnsureSheet(ctx, "ledger", ""); err != nil {
		t.Fatalf("EnsureSheet() error = %v", err)
	}
	if err := store.AppendRows(ctx, "ledger", "", [][]string{
		{"商品名稱", "數量"},
		{"商品A", "1"},
	}); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	repo := NewSheetLedgerRepository(store, TableAddress{SpreadsheetID: "ledger"})
	if _, err := repo.Load(ctx); err == nil {
		t.Fatal("Load() error = nil, want missing-field error")
	}
}

func TestCatalogRepository_ReadsLegacySheets(t *testing.T) {
	store := NewMemorySheetStore()
	ctx := context.Background()
	if err := store.EnsureSheet(ctx, "legacy", "表一"); err != nil {
		t.Fatalf("EnsureSheet() error = %v", err)
	}
	if err := store.AppendRows(ctx, "legacy", "表一", [][]string{
		{"商品ID", "成本"},
		{"X123", "35"},
	}); err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	repo := NewSheetCatalogRepository(store, TableAddress{SpreadsheetID: "cost"}, "legacy")
	grids, err := repo.ReadLegacyGrids(ctx)
	if err != nil {
		t.Fatalf("ReadLegacyGrids() error = %v", err)
	}
	if len(grids) != 1 || len(grids[0]) != 2 {
		t.Fatalf("grids = %+v, want one 2-row grid", grids)
	}
}
