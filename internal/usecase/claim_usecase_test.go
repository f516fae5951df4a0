package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

type stubLedgerRepo struct {
	items    []entity.LineItem
	replaced []entity.LineItem
	appended []entity.LineItem
	initWith []entity.LineItem
}

func (s *stubLedgerRepo) Load(ctx context.Context) ([]entity.LineItem, error) {
	return s.items, nil
}

func (s *stubLedgerRepo) Append(ctx context.Context, items []entity.LineItem) error {
	s.appended = append(s.appended, items...)
	s.items = append(s.items, items...)
	return nil
}

func (s *stubLedgerRepo) Initialize(ctx context.Context, items []entity.LineItem) error {
	s.initWith = items
	s.items = items
	return nil
}

func (s *stubLedgerRepo) ReplaceAll(ctx context.Context, items []entity.LineItem) error {
	s.replaced = items
	s.items = items
	return nil
}

type stubMemoryRepo struct {
	rules map[entity.MemoryKey]entity.MemoryRule
	saved []entity.MemoryRule
}

func (s *stubMemoryRepo) GetRules(ctx context.Context) (map[entity.MemoryKey]entity.MemoryRule, error) {
	if s.rules == nil {
		return map[entity.MemoryKey]entity.MemoryRule{}, nil
	}
	return s.rules, nil
}

func (s *stubMemoryRepo) SaveRule(ctx context.Context, rule entity.MemoryRule) (bool, error) {
	if s.rules == nil {
		s.rules = make(map[entity.MemoryKey]entity.MemoryRule)
	}
	if _, ok := s.rules[rule.Key()]; ok {
		return false, nil
	}
	s.rules[rule.Key()] = rule
	s.saved = append(s.saved, rule)
	return true, nil
}

func TestClaim_UpdatesRowAndRemembers(t *testing.T) {
	ledger := &stubLedgerRepo{items: []entity.LineItem{
		{OrderID: "1001", ProductName: "ChatGPT續約區", OptionName: "一個月", Quantity: 2, Payout: 1500},
	}}
	memory := &stubMemoryRepo{}
	uc := NewClaimUseCase(ledger, memory, testResolver())

	err := uc.Claim(context.Background(), "1001", "GPT月費", 450, true)
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	row := ledger.replaced[0]
	if row.Cost != 450 {
		t.Fatalf("cost = %v, want 450", row.Cost)
	}
	if row.Profit != 1500-450*2 {
		t.Fatalf("profit = %v, want %v", row.Profit, 1500-450*2)
	}
	if row.Note != "已歸戶: GPT月費" {
		t.Fatalf("note = %q, want 已歸戶: GPT月費", row.Note)
	}
	if len(memory.saved) != 1 {
		t.Fatalf("saved rules = %d, want 1", len(memory.saved))
	}
	rule := memory.saved[0]
	if rule.ProductName != "ChatGPT續約區" || rule.OptionName != "一個月" || rule.RealCost != 450 {
		t.Fatalf("saved rule = %+v", rule)
	}
}

func TestClaim_DenylistRefusesMemoryWriteButCommitsRow(t *testing.T) {
	ledger := &stubLedgerRepo{items: []entity.LineItem{
		{OrderID: "1001", ProductName: "7777下單信用卡專區 $100", Quantity: 1, Payout: 95},
	}}
	memory := &stubMemoryRepo{}
	uc := NewClaimUseCase(ledger, memory, testResolver())

	err := uc.Claim(context.Background(), "1001", "信用卡代購", 90, true)
	if !errors.Is(err, entity.ErrDenylistedRemember) {
		t.Fatalf("Claim() error = %v, want ErrDenylistedRemember", err)
	}

	// Qator yangilanishi baribir yozilgan bo'lishi kerak
	if ledger.replaced == nil {
		t.Fatal("ReplaceAll was not called")
	}
	if ledger.replaced[0].Cost != 90 {
		t.Fatalf("cost = %v, want 90", ledger.replaced[0].Cost)
	}
	if len(memory.saved) != 0 {
		t.Fatalf("saved rules = %d, want 0 (denylisted)", len(memory.saved))
	}
}

func TestClaim_WithoutRememberSkipsMemory(t *testing.T) {
	ledger := &stubLedgerRepo{items: []entity.LineItem{
		{OrderID: "1001", ProductName: "ChatGPT續約區", Quantity: 1, Payout: 800},
	}}
	memory := &stubMemoryRepo{}
	uc := NewClaimUseCase(ledger, memory, testResolver())

	if err := uc.Claim(context.Background(), "1001", "GPT月費", 450, false); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if len(memory.saved) != 0 {
		t.Fatalf("saved rules = %d, want 0", len(memory.saved))
	}
}

func TestClaim_UnknownOrder(t *testing.T) {
	uc := NewClaimUseCase(&stubLedgerRepo{}, &stubMemoryRepo{}, testResolver())
	if err := uc.Claim(context.Background(), "9999", "X", 1, false); err == nil {
		t.Fatal("Claim() error = nil, want not-found error")
	}
}

func TestPendingSpecials_SkipsClaimedRows(t *testing.T) {
	ledger := &stubLedgerRepo{items: []entity.LineItem{
		{OrderID: "1001", ProductName: "ChatGPT續約區", Note: "待人工確認"},
		{OrderID: "1002", ProductName: "ChatGPT續約區", Note: "已歸戶: GPT月費"},
		{OrderID: "1003", ProductName: "一般商品"},
	}}
	uc := NewClaimUseCase(ledger, &stubMemoryRepo{}, testResolver())

	pending, err := uc.PendingSpecials(context.Background())
	if err != nil {
		t.Fatalf("PendingSpecials() error = %v", err)
	}
	if len(pending) != 1 || pending[0].OrderID != "1001" {
		t.Fatalf("PendingSpecials() = %+v, want only 1001", pending)
	}
}
