package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

// ImportUseCase the upload pipeline: decode the order export, join costs,
// compute profit, auto-resolve specials, and append only genuinely new
// orders into the ledger.
type ImportUseCase interface {
	ProcessReport(ctx context.Context, data []byte) (*entity.ImportSummary, error)
	SyncProducts(ctx context.Context, data []byte) (int, error)
}

type importUseCase struct {
	parser      repository.ReportParser
	catalogUC   CatalogUseCase
	memoryRepo  repository.MemoryRepository
	ledgerRepo  repository.LedgerRepository
	resolver    *CostResolver
}

// NewImportUseCase wires the upload pipeline.
func NewImportUseCase(
	parser repository.ReportParser,
	catalogUC CatalogUseCase,
	memoryRepo repository.MemoryRepository,
	ledgerRepo repository.LedgerRepository,
	resolver *CostResolver,
) ImportUseCase {
	return &importUseCase{
		parser:     parser,
		catalogUC:  catalogUC,
		memoryRepo: memoryRepo,
		ledgerRepo: ledgerRepo,
		resolver:   resolver,
	}
}

func (u *importUseCase) ProcessReport(ctx context.Context, data []byte) (*entity.ImportSummary, error) {
	report, err := u.parser.ParseSalesReport(data)
	if err != nil {
		return nil, err
	}

	table, err := u.catalogUC.LoadCostTable(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := u.memoryRepo.GetRules(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read memory rules", Err: err}
	}

	items := u.enrich(report, table, rules)

	existingItems, err := u.ledgerRepo.Load(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read ledger", Err: err}
	}

	summary := &entity.ImportSummary{BatchID: uuid.NewString()}

	// The full accepted set is computed before any write: the merge itself
	// never partially persists. Initialization is decided from row presence,
	// not from the ID set: rows with an empty order ID are still prior rows
	// and must survive the import.
	var accepted []entity.LineItem
	if len(existingItems) == 0 {
		accepted = items
		summary.Initialized = true
	} else {
		accepted, summary.Skipped = MergeLedger(OrderIDSet(existingItems), items)
	}

	for _, item := range accepted {
		if u.resolver.IsSpecial(item.ProductName) {
			summary.Specials++
			if item.Note != constants.NotePendingReview {
				summary.AutoClaimed++
			}
		}
	}

	if summary.Initialized {
		if err := u.ledgerRepo.Initialize(ctx, accepted); err != nil {
			return nil, &entity.StoreError{Op: "initialize ledger", Err: err}
		}
	} else if len(accepted) > 0 {
		if err := u.ledgerRepo.Append(ctx, accepted); err != nil {
			return nil, &entity.StoreError{Op: "append ledger", Err: err}
		}
	}
	summary.Accepted = len(accepted)
	return summary, nil
}

// enrich joins the cost table, derives fees and payout, computes profit and
// runs special rows through the resolver. Never writes memory rules.
func (u *importUseCase) enrich(
	report *entity.SalesReport,
	table *CostTable,
	rules map[entity.MemoryKey]entity.MemoryRule,
) []entity.LineItem {
	byCode := table.ByCode()

	payoutSum := 0.0
	for _, item := range report.Items {
		payoutSum += item.Payout
	}
	usePayoutColumn := report.HasPayoutColumn && payoutSum != 0

	now := time.Now()
	out := make([]entity.LineItem, 0, len(report.Items))
	for _, item := range report.Items {
		if e, ok := byCode[item.SKUCode]; ok {
			item.Cost = e.Cost
		}
		if !report.HasTotalFeeColumn {
			item.TotalFee = item.CommFee + item.PaymentFee + item.ServiceFee
		}
		if !usePayoutColumn {
			item.Payout = item.Price - item.TotalFee
		}
		item.Profit = item.Payout - item.Cost*float64(item.Quantity)
		item.BackupAt = now

		if u.resolver.IsSpecial(item.ProductName) {
			if res, ok := u.resolver.Resolve(item.ProductName, item.OptionName, rules, table.Entries); ok {
				item.Cost = res.Cost
				item.Profit = item.Payout - item.Cost*float64(item.Quantity)
				item.Note = constants.NoteAutoClaimedPrefix + res.Label
			} else {
				item.Cost = 0
				item.Profit = 0
				item.Note = constants.NotePendingReview
			}
		}
		out = append(out, item)
	}
	return out
}

func (u *importUseCase) SyncProducts(ctx context.Context, data []byte) (int, error) {
	products, err := u.parser.ParseMassUpdate(data)
	if err != nil {
		return 0, err
	}
	return u.catalogUC.SyncNewProducts(ctx, products)
}
