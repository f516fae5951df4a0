package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

const salesTableName = "銷售報表"

// ExcelParser decodes Shopee export workbooks with excelize. Order exports
// are usually password-protected; plain decoding is tried first.
type ExcelParser struct {
	password string
}

// NewExcelParser builds a parser with the shared export password.
func NewExcelParser(password string) repository.ReportParser {
	return &ExcelParser{password: password}
}

func (p *ExcelParser) openWorkbook(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err == nil {
		return f, nil
	}
	if p.password == "" {
		return nil, fmt.Errorf("excel 解析失敗: %w", err)
	}
	f, err = excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: p.password})
	if err != nil {
		return nil, fmt.Errorf("excel 解析失敗: %w", err)
	}
	return f, nil
}

func firstSheetRows(f *excelize.File) ([][]string, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheet)
}

// normalizeHeader strips newlines and surrounding space, then applies the
// export's column renames. Shopee shuffles header wording between report
// versions, so 撥款金額/商品編碼 variants are matched by substring.
func normalizeHeader(raw string) string {
	h := strings.TrimSpace(strings.ReplaceAll(raw, "\n", ""))
	switch h {
	case "蝦皮商品編碼 (商品ID_規格ID)":
		return "蝦皮商品編碼"
	case "商品總價":
		return "售價"
	case "訂單小計 (撥款金額)":
		return "進蝦皮錢包"
	case "買家支付運費":
		return "運費"
	}
	if strings.Contains(h, "撥款金額") || strings.Contains(h, "進蝦皮錢包") {
		return "進蝦皮錢包"
	}
	if strings.Contains(h, "商品編碼") && strings.Contains(h, "規格") {
		return "蝦皮商品編碼"
	}
	return h
}

func (p *ExcelParser) ParseSalesReport(data []byte) (*entity.SalesReport, error) {
	f, err := p.openWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, fmt.Errorf("excel 解析失敗: %w", err)
	}
	if len(rows) == 0 {
		return nil, &entity.MissingFieldError{Table: salesTableName, Field: "訂單編號"}
	}

	cols := make(map[string]int, len(rows[0]))
	for i, raw := range rows[0] {
		h := normalizeHeader(raw)
		if _, ok := cols[h]; !ok && h != "" {
			cols[h] = i
		}
	}
	for _, required := range []string{"訂單編號", "商品名稱"} {
		if _, ok := cols[required]; !ok {
			return nil, &entity.MissingFieldError{Table: salesTableName, Field: required}
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	_, hasTotalFee := cols["蝦皮付費總金額"]
	_, hasPayout := cols["進蝦皮錢包"]
	_, hasStatus := cols["訂單狀態"]

	report := &entity.SalesReport{
		HasTotalFeeColumn: hasTotalFee,
		HasPayoutColumn:   hasPayout,
	}
	seen := make(map[string]struct{})
	for _, row := range rows[1:] {
		if hasStatus && strings.TrimSpace(cell(row, "訂單狀態")) == "不成立" {
			continue
		}
		// exact-duplicate export rows appear when Shopee re-sends a page
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		item := entity.LineItem{
			OrderID:     strings.TrimSpace(cell(row, "訂單編號")),
			OrderDate:   strings.TrimSpace(cell(row, "訂單成立日期")),
			ProductName: strings.TrimSpace(cell(row, "商品名稱")),
			OptionName:  strings.TrimSpace(cell(row, "商品選項名稱")),
			SKUCode:     entity.CleanID(cell(row, "蝦皮商品編碼")),
			Quantity:    int(entity.ParseAmount(cell(row, "數量"))),
			Price:       entity.ParseAmount(cell(row, "售價")),
			CommFee:     entity.ParseAmount(cell(row, "成交手續費")),
			PaymentFee:  entity.ParseAmount(cell(row, "金流與系統處理費")),
			ServiceFee:  entity.ParseAmount(cell(row, "其他服務費")),
			TotalFee:    entity.ParseAmount(cell(row, "蝦皮付費總金額")),
			Payout:      entity.ParseAmount(cell(row, "進蝦皮錢包")),
		}
		if item.OrderID == "" && item.ProductName == "" {
			continue
		}
		report.Items = append(report.Items, item)
	}
	return report, nil
}

// ParseMassUpdate decodes the mass_update product export. Its header sits on
// the third row; the first two carry Shopee's instructions.
func (p *ExcelParser) ParseMassUpdate(data []byte) ([]entity.MassProduct, error) {
	f, err := p.openWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, fmt.Errorf("excel 解析失敗: %w", err)
	}
	if len(rows) < 3 {
		return nil, &entity.MissingFieldError{Table: "mass_update", Field: "商品ID"}
	}

	header := rows[2]
	cols := make(map[string]int, len(header))
	for i, raw := range header {
		h := strings.TrimSpace(strings.ReplaceAll(raw, "\n", ""))
		if _, ok := cols[h]; !ok && h != "" {
			cols[h] = i
		}
	}
	for _, required := range []string{"商品ID", "商品名稱"} {
		if _, ok := cols[required]; !ok {
			return nil, &entity.MissingFieldError{Table: "mass_update", Field: required}
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []entity.MassProduct
	for _, row := range rows[3:] {
		productID := entity.CleanID(cell(row, "商品ID"))
		if productID == "" {
			continue
		}
		optionID := entity.CleanID(cell(row, "商品選項ID"))
		name := cell(row, "商品名稱")
		if spec := cell(row, "商品規格名稱"); spec != "" {
			name += " [" + spec + "]"
		}
		products = append(products, entity.MassProduct{
			FullName: name,
			Key:      productID + "_" + optionID,
		})
	}
	return products, nil
}
