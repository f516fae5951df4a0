package parser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

func buildWorkbook(t *testing.T, rows [][]interface{}, password string) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if password != "" {
		if err := f.Write(&buf, excelize.Options{Password: password}); err != nil {
			t.Fatalf("write workbook: %v", err)
		}
	} else {
		if _, err := f.WriteTo(&buf); err != nil {
			t.Fatalf("write workbook: %v", err)
		}
	}
	return buf.Bytes()
}

func salesRows() [][]interface{} {
	return [][]interface{}{
		{"訂單編號", "訂單狀態", "訂單成立日期", "商品名稱", "商品選項名稱", "蝦皮商品編碼 (商品ID_規格ID)", "數量", "商品總價", "成交手續費", "金流與系統處理費", "其他服務費", "蝦皮付費總金額", "訂單小計 (撥款金額)"},
		{"1001", "已完成", "2026-08-01 10:00", "商品A", "紅色", "100_200", "2", "200", "5", "2", "3", "10", "190"},
		{"1002", "不成立", "2026-08-01 11:00", "商品B", "", "101_201", "1", "100", "2", "1", "1", "4", "96"},
		{"1003", "已完成", "2026-08-01 12:00", "商品C", "", "102_202", "1", "150", "3", "2", "1", "6", "144"},
		{"1003", "已完成", "2026-08-01 12:00", "商品C", "", "102_202", "1", "150", "3", "2", "1", "6", "144"},
	}
}

func TestParseSalesReport_RenamesColumnsAndFilters(t *testing.T) {
	data := buildWorkbook(t, salesRows(), "")
	p := NewExcelParser("")

	report, err := p.ParseSalesReport(data)
	if err != nil {
		t.Fatalf("ParseSalesReport() error = %v", err)
	}

	// 不成立 qatori va aynan bir xil dublikat tushib qoladi
	if len(report.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(report.Items))
	}
	if !report.HasTotalFeeColumn || !report.HasPayoutColumn {
		t.Fatalf("column flags = %v/%v, want true/true", report.HasTotalFeeColumn, report.HasPayoutColumn)
	}

	item := report.Items[0]
	if item.OrderID != "1001" || item.SKUCode != "100_200" {
		t.Fatalf("item = %+v", item)
	}
	if item.Price != 200 {
		t.Fatalf("price = %v, want 200 (商品總價 rename)", item.Price)
	}
	if item.Payout != 190 {
		t.Fatalf("payout = %v, want 190 (撥款金額 rename)", item.Payout)
	}
	if item.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", item.Quantity)
	}
}

func TestParseSalesReport_PasswordProtected(t *testing.T) {
	data := buildWorkbook(t, salesRows(), "shopee123")

	// Noto'g'ri parol bilan ochilmaydi
	if _, err := NewExcelParser("").ParseSalesReport(data); err == nil {
		t.Fatal("ParseSalesReport() without password succeeded, want error")
	}

	report, err := NewExcelParser("shopee123").ParseSalesReport(data)
	if err != nil {
		t.Fatalf("ParseSalesReport() with password error = %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(report.Items))
	}
}

func TestParseSalesReport_MissingOrderColumn(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"商品名稱", "數量"},
		{"商品A", "1"},
	}, "")

	_, err := NewExcelParser("").ParseSalesReport(data)
	var missing *entity.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingFieldError", err)
	}
	if missing.Field != "訂單編號" {
		t.Fatalf("missing field = %q, want 訂單編號", missing.Field)
	}
}

func TestParseMassUpdate_HeaderOnThirdRow(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"etc_填寫須知"},
		{"請勿修改此列"},
		{"商品ID", "商品選項ID", "商品名稱", "商品規格名稱"},
		{"26203713538", "81246286050", "商品A", "紅色"},
		{"26203713539", "", "商品B", ""},
		{"", "", "孤兒row", ""},
	}, "")

	products, err := NewExcelParser("").ParseMassUpdate(data)
	if err != nil {
		t.Fatalf("ParseMassUpdate() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len(products) = %d, want 2", len(products))
	}
	if products[0].Key != "26203713538_81246286050" {
		t.Fatalf("key = %q", products[0].Key)
	}
	if products[0].FullName != "商品A [紅色]" {
		t.Fatalf("full name = %q, want 商品A [紅色]", products[0].FullName)
	}
	// 規格 bo'sh bo'lsa qavs qo'shilmaydi
	if products[1].FullName != "商品B" {
		t.Fatalf("full name = %q, want 商品B", products[1].FullName)
	}
	if products[1].Key != "26203713539_" {
		t.Fatalf("key = %q, want trailing underscore when option missing", products[1].Key)
	}
}
