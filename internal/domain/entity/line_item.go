package entity

import "time"

// LineItem one sold unit group from an order export, enriched during import
// and persisted as a ledger row.
type LineItem struct {
	OrderID     string    `json:"order_id"`     // 訂單編號
	OrderDate   string    `json:"order_date"`   // 訂單成立日期 (kept as exported)
	ProductName string    `json:"product_name"` // 商品名稱
	OptionName  string    `json:"option_name"`  // 商品選項名稱 (may be empty)
	SKUCode     string    `json:"sku_code"`     // 蝦皮商品編碼, cleanID form
	Quantity    int       `json:"quantity"`     // 數量
	Price       float64   `json:"price"`        // 售價
	CommFee     float64   `json:"comm_fee"`     // 成交手續費
	PaymentFee  float64   `json:"payment_fee"`  // 金流與系統處理費
	ServiceFee  float64   `json:"service_fee"`  // 其他服務費
	TotalFee    float64   `json:"total_fee"`    // 蝦皮付費總金額
	Payout      float64   `json:"payout"`       // 進蝦皮錢包 (net payout)
	Cost        float64   `json:"cost"`         // 成本 (unit cost, 0 until resolved)
	Profit      float64   `json:"profit"`       // 總利潤 = payout − cost×qty
	Note        string    `json:"note"`         // 備註
	BackupAt    time.Time `json:"backup_at"`    // 資料備份時間
}

// CostEntry one catalog row of the product-cost table. SKUCode is the unique
// key after cleanID normalization; on duplicates a positive cost wins over 0.
type CostEntry struct {
	Name    string  `json:"name"`     // 商品名稱
	SKUCode string  `json:"sku_code"` // 蝦皮商品編碼
	Cost    float64 `json:"cost"`     // 成本
	RowNo   int     `json:"row_no"`   // original sheet row (1-based, incl. header)
}

// MenuLabel human-facing "name | cost" label used in claim menus.
func (e CostEntry) MenuLabel() string {
	return e.Name + " | 成本$" + trimFloat(e.Cost)
}

// MemoryKey composite key of a remembered mapping.
type MemoryKey struct {
	ProductName string
	OptionName  string
}

// MemoryRule a remembered manual mapping: (product, option) → (sku, cost).
type MemoryRule struct {
	ProductName string  `json:"product_name"` // 蝦皮商品名稱
	OptionName  string  `json:"option_name"`  // 商品選項名稱 ("" for legacy rules)
	RealSKU     string  `json:"real_sku"`     // 真實SKU名稱
	RealCost    float64 `json:"real_cost"`    // 真實成本
}

// Key returns the composite lookup key of the rule.
func (r MemoryRule) Key() MemoryKey {
	return MemoryKey{ProductName: r.ProductName, OptionName: r.OptionName}
}

// SalesReport a decoded order-export workbook. Column-presence flags drive
// the fee/payout fallbacks during import.
type SalesReport struct {
	Items []LineItem

	// HasTotalFeeColumn 蝦皮付費總金額 column was present in the export.
	HasTotalFeeColumn bool

	// HasPayoutColumn 進蝦皮錢包 (撥款金額) column was present.
	HasPayoutColumn bool
}

// MassProduct one row of Shopee's mass_update product export, reduced to
// the catalog sync key: "{商品ID}_{商品選項ID}".
type MassProduct struct {
	FullName string `json:"full_name"` // 商品名稱 [商品規格名稱]
	Key      string `json:"key"`
}

// ImportSummary outcome of one order-export upload.
type ImportSummary struct {
	BatchID     string `json:"batch_id"`
	Accepted    int    `json:"accepted"`
	Skipped     int    `json:"skipped"`
	Specials    int    `json:"specials"`     // special rows in the accepted set
	AutoClaimed int    `json:"auto_claimed"` // specials resolved without the operator
	Initialized bool   `json:"initialized"`  // ledger was empty before this batch
}

// DailyStats dashboard aggregates for one date. Unresolved special rows are
// excluded from the money columns and reported separately.
type DailyStats struct {
	Date       string     `json:"date"`
	Revenue    float64    `json:"revenue"`
	Cost       float64    `json:"cost"`
	Profit     float64    `json:"profit"`
	Margin     float64    `json:"margin"` // percent, 0 when revenue is 0
	Orders     int        `json:"orders"`
	Items      []LineItem `json:"items"` // resolved rows behind the aggregates
	Unresolved []LineItem `json:"unresolved"`
}
