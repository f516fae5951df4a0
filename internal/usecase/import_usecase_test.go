package usecase

import (
	"context"
	"testing"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

type stubParser struct {
	report   *entity.SalesReport
	products []entity.MassProduct
	err      error
}

func (s *stubParser) ParseSalesReport(data []byte) (*entity.SalesReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubParser) ParseMassUpdate(data []byte) ([]entity.MassProduct, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func newImportFixture(report *entity.SalesReport, ledger *stubLedgerRepo) (ImportUseCase, *stubCatalogRepo, *stubMemoryRepo) {
	catalogRepo := &stubCatalogRepo{grid: [][]string{
		{"商品名稱", "蝦皮商品編碼", "成本"},
		{"商品A", "X123", "40"},
		{"GPT月費", "X456", "450"},
	}}
	memory := &stubMemoryRepo{}
	resolver := testResolver()
	uc := NewImportUseCase(
		&stubParser{report: report},
		NewCatalogUseCase(catalogRepo, "商品編碼表"),
		memory,
		ledger,
		resolver,
	)
	return uc, catalogRepo, memory
}

func TestProcessReport_InitializesEmptyLedger(t *testing.T) {
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "商品A", SKUCode: "X123", Quantity: 2, Price: 200, Payout: 180},
		},
		HasTotalFeeColumn: true,
		HasPayoutColumn:   true,
	}
	ledger := &stubLedgerRepo{}
	uc, _, _ := newImportFixture(report, ledger)

	summary, err := uc.ProcessReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if !summary.Initialized {
		t.Fatal("Initialized = false, want true for empty ledger")
	}
	if summary.Accepted != 1 {
		t.Fatalf("Accepted = %d, want 1", summary.Accepted)
	}
	if ledger.initWith == nil {
		t.Fatal("Initialize was not called")
	}
	row := ledger.initWith[0]
	if row.Cost != 40 {
		t.Fatalf("cost = %v, want 40 (catalog join)", row.Cost)
	}
	if row.Profit != 180-40*2 {
		t.Fatalf("profit = %v, want %v", row.Profit, 180-40*2)
	}
	if summary.BatchID == "" {
		t.Fatal("BatchID is empty")
	}
}

func TestProcessReport_SecondUploadSkipsExisting(t *testing.T) {
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "商品A", SKUCode: "X123", Quantity: 1, Price: 100, Payout: 90},
			{OrderID: "1002", ProductName: "商品A", SKUCode: "X123", Quantity: 1, Price: 100, Payout: 90},
		},
		HasTotalFeeColumn: true,
		HasPayoutColumn:   true,
	}
	ledger := &stubLedgerRepo{items: []entity.LineItem{{OrderID: "1001"}}}
	uc, _, _ := newImportFixture(report, ledger)

	summary, err := uc.ProcessReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if summary.Initialized {
		t.Fatal("Initialized = true, want false")
	}
	if summary.Accepted != 1 || summary.Skipped != 1 {
		t.Fatalf("Accepted/Skipped = %d/%d, want 1/1", summary.Accepted, summary.Skipped)
	}
	if len(ledger.appended) != 1 || ledger.appended[0].OrderID != "1002" {
		t.Fatalf("appended = %+v, want only 1002", ledger.appended)
	}
}

func TestProcessReport_KeepsEmptyIDRowsOnImport(t *testing.T) {
	// Bo'sh order IDli qatorlar ham mavjud qator hisoblanadi: import ularni
	// initialize bilan o'chirib yubormasligi kerak
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "商品A", SKUCode: "X123", Quantity: 1, Price: 100, Payout: 90},
		},
		HasTotalFeeColumn: true,
		HasPayoutColumn:   true,
	}
	ledger := &stubLedgerRepo{items: []entity.LineItem{
		{OrderID: "", ProductName: "商品X"},
		{OrderID: "  ", ProductName: "商品Y"},
	}}
	uc, _, _ := newImportFixture(report, ledger)

	summary, err := uc.ProcessReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if summary.Initialized {
		t.Fatal("Initialized = true, want false when prior rows exist")
	}
	if ledger.initWith != nil {
		t.Fatal("Initialize was called over a non-empty ledger")
	}
	if summary.Accepted != 1 || summary.Skipped != 0 {
		t.Fatalf("Accepted/Skipped = %d/%d, want 1/0", summary.Accepted, summary.Skipped)
	}
	if len(ledger.items) != 3 {
		t.Fatalf("ledger rows = %d, want 3 (prior rows kept)", len(ledger.items))
	}
}

func TestProcessReport_ReuploadReportsNoSpecials(t *testing.T) {
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "7777下單信用卡專區 $500",
				Quantity: 1, Price: 500, Payout: 480},
		},
		HasTotalFeeColumn: true,
		HasPayoutColumn:   true,
	}
	ledger := &stubLedgerRepo{items: []entity.LineItem{{OrderID: "1001"}}}
	uc, _, _ := newImportFixture(report, ledger)

	summary, err := uc.ProcessReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if summary.Accepted != 0 || summary.Skipped != 1 {
		t.Fatalf("Accepted/Skipped = %d/%d, want 0/1", summary.Accepted, summary.Skipped)
	}
	// Hech narsa qabul qilinmadi, demak hech qanday special ham yo'q
	if summary.Specials != 0 || summary.AutoClaimed != 0 {
		t.Fatalf("Specials/AutoClaimed = %d/%d, want 0/0", summary.Specials, summary.AutoClaimed)
	}
}

func TestProcessReport_DerivesFeesAndPayout(t *testing.T) {
	// Eksportda 蝦皮付費總金額 va 進蝦皮錢包 ustunlari yo'q
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "商品A", SKUCode: "X123", Quantity: 1,
				Price: 100, CommFee: 5, PaymentFee: 2, ServiceFee: 3},
		},
	}
	ledger := &stubLedgerRepo{}
	uc, _, _ := newImportFixture(report, ledger)

	if _, err := uc.ProcessReport(context.Background(), nil); err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	row := ledger.initWith[0]
	if row.TotalFee != 10 {
		t.Fatalf("total fee = %v, want 10 (sum of fees)", row.TotalFee)
	}
	if row.Payout != 90 {
		t.Fatalf("payout = %v, want 90 (price minus fees)", row.Payout)
	}
	if row.Profit != 90-40 {
		t.Fatalf("profit = %v, want 50", row.Profit)
	}
}

func TestProcessReport_AutoResolvesSpecialFromMemory(t *testing.T) {
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "ChatGPT續約區", OptionName: "一個月",
				Quantity: 1, Price: 800, Payout: 760},
		},
		HasTotalFeeColumn: true,
		HasPayoutColumn:   true,
	}
	ledger := &stubLedgerRepo{}
	uc, _, memory := newImportFixture(report, ledger)
	memory.rules = map[entity.MemoryKey]entity.MemoryRule{
		{ProductName: "ChatGPT續約區", OptionName: "一個月"}: {
			ProductName: "ChatGPT續約區", OptionName: "一個月", RealSKU: "GPT月費", RealCost: 450,
		},
	}

	summary, err := uc.ProcessReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if summary.Specials != 1 || summary.AutoClaimed != 1 {
		t.Fatalf("Specials/AutoClaimed = %d/%d, want 1/1", summary.Specials, summary.AutoClaimed)
	}
	row := ledger.initWith[0]
	if row.Cost != 450 {
		t.Fatalf("cost = %v, want 450", row.Cost)
	}
	if row.Profit != 760-450 {
		t.Fatalf("profit = %v, want 310", row.Profit)
	}
	if row.Note != "已歸戶(自動): GPT月費" {
		t.Fatalf("note = %q", row.Note)
	}
}

func TestProcessReport_UnresolvedSpecialGetsPendingNote(t *testing.T) {
	report := &entity.SalesReport{
		Items: []entity.LineItem{
			{OrderID: "1001", ProductName: "7777下單信用卡專區 $500",
				Quantity: 1, Price: 500, Payout: 480},
		},
		HasTotalFeeColumn: true,
		HasPayoutColumn:   true,
	}
	ledger := &stubLedgerRepo{}
	uc, _, _ := newImportFixture(report, ledger)

	summary, err := uc.ProcessReport(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessReport() error = %v", err)
	}
	if summary.Specials != 1 || summary.AutoClaimed != 0 {
		t.Fatalf("Specials/AutoClaimed = %d/%d, want 1/0", summary.Specials, summary.AutoClaimed)
	}
	row := ledger.initWith[0]
	if row.Cost != 0 || row.Profit != 0 {
		t.Fatalf("cost/profit = %v/%v, want 0/0 until claimed", row.Cost, row.Profit)
	}
	if row.Note != "待人工確認" {
		t.Fatalf("note = %q, want 待人工確認", row.Note)
	}
}

func TestSyncProducts_DelegatesToCatalog(t *testing.T) {
	catalogRepo := &stubCatalogRepo{grid: [][]string{
		{"商品名稱", "蝦皮商品編碼", "成本"},
	}}
	uc := NewImportUseCase(
		&stubParser{products: []entity.MassProduct{{FullName: "商品B [藍]", Key: "101_201"}}},
		NewCatalogUseCase(catalogRepo, "商品編碼表"),
		&stubMemoryRepo{},
		&stubLedgerRepo{},
		testResolver(),
	)

	added, err := uc.SyncProducts(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncProducts() error = %v", err)
	}
	if added != 1 {
		t.Fatalf("SyncProducts() = %d, want 1", added)
	}
}
