package repository

import (
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

// ReportParser decodes uploaded Excel workbooks.
type ReportParser interface {
	// ParseSalesReport decodes an order export. Plain workbooks are tried
	// first; password-protected ones fall back to the shared password.
	ParseSalesReport(data []byte) (*entity.SalesReport, error)

	// ParseMassUpdate decodes Shopee's mass_update product export.
	ParseMassUpdate(data []byte) ([]entity.MassProduct, error)
}
