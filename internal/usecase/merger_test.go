package usecase

import (
	"testing"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

func TestMergeLedger_SkipsExistingOrders(t *testing.T) {
	existing := map[string]struct{}{"1001": {}}
	batch := []entity.LineItem{
		{OrderID: "1001", ProductName: "商品A"},
		{OrderID: "1002", ProductName: "商品B"},
	}

	accepted, skipped := MergeLedger(existing, batch)
	if skipped != 1 {
		t.Fatalf("MergeLedger() skipped = %d, want 1", skipped)
	}
	if len(accepted) != 1 || accepted[0].OrderID != "1002" {
		t.Fatalf("MergeLedger() accepted = %+v, want only 1002", accepted)
	}
}

func TestMergeLedger_SecondRunIsIdempotent(t *testing.T) {
	batch := []entity.LineItem{
		{OrderID: "1001"},
		{OrderID: "1002"},
	}

	accepted, skipped := MergeLedger(map[string]struct{}{}, batch)
	if skipped != 0 || len(accepted) != 2 {
		t.Fatalf("first run: accepted %d skipped %d, want 2/0", len(accepted), skipped)
	}

	existing := make(map[string]struct{})
	for _, item := range accepted {
		existing[item.OrderID] = struct{}{}
	}
	accepted, skipped = MergeLedger(existing, batch)
	if skipped != 2 || len(accepted) != 0 {
		t.Fatalf("second run: accepted %d skipped %d, want 0/2", len(accepted), skipped)
	}
}

func TestMergeLedger_TrimsOrderIDs(t *testing.T) {
	existing := map[string]struct{}{"1001": {}}
	batch := []entity.LineItem{{OrderID: " 1001 "}}

	_, skipped := MergeLedger(existing, batch)
	if skipped != 1 {
		t.Fatalf("MergeLedger() skipped = %d, want 1 (trimmed match)", skipped)
	}
}

func TestMergeLedger_EmptyOrderIDAlwaysAccepted(t *testing.T) {
	existing := map[string]struct{}{"": {}}
	batch := []entity.LineItem{{OrderID: ""}, {OrderID: "  "}}

	accepted, skipped := MergeLedger(existing, batch)
	if skipped != 0 || len(accepted) != 2 {
		t.Fatalf("MergeLedger() accepted %d skipped %d, want 2/0", len(accepted), skipped)
	}
}

func TestOrderIDSet_SkipsEmptyAndTrims(t *testing.T) {
	items := []entity.LineItem{
		{OrderID: " 1001 "},
		{OrderID: ""},
		{OrderID: "  "},
		{OrderID: "1002"},
	}

	ids := OrderIDSet(items)
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2", len(ids))
	}
	if _, ok := ids["1001"]; !ok {
		t.Fatal("ids missing trimmed 1001")
	}
	if _, ok := ids["1002"]; !ok {
		t.Fatal("ids missing 1002")
	}
}

func TestMergeLedger_KeepsInBatchDuplicates(t *testing.T) {
	// Multi-SKU buyurtma: bitta order ID ostida bir nechta qator
	batch := []entity.LineItem{
		{OrderID: "1001", ProductName: "商品A"},
		{OrderID: "1001", ProductName: "商品B"},
	}

	accepted, skipped := MergeLedger(map[string]struct{}{}, batch)
	if skipped != 0 || len(accepted) != 2 {
		t.Fatalf("MergeLedger() accepted %d skipped %d, want 2/0", len(accepted), skipped)
	}
}
