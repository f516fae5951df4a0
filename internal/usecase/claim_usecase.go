package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

// ClaimUseCase manual reconciliation of special orders.
type ClaimUseCase interface {
	// PendingSpecials lists ledger rows that match a special marker and have
	// not been reconciled yet.
	PendingSpecials(ctx context.Context) ([]entity.LineItem, error)

	// Claim assigns the real product and cost to one ledger row, recomputing
	// profit from the row's stored net payout. With remember, the mapping is
	// persisted as a memory rule, unless the product name is denylisted, in
	// which case the row update still proceeds and ErrDenylistedRemember is
	// returned as a warning.
	Claim(ctx context.Context, orderID, realLabel string, realCost float64, remember bool) error
}

type claimUseCase struct {
	ledgerRepo repository.LedgerRepository
	memoryRepo repository.MemoryRepository
	resolver   *CostResolver
}

// NewClaimUseCase builds the claim usecase.
func NewClaimUseCase(
	ledgerRepo repository.LedgerRepository,
	memoryRepo repository.MemoryRepository,
	resolver *CostResolver,
) ClaimUseCase {
	return &claimUseCase{ledgerRepo: ledgerRepo, memoryRepo: memoryRepo, resolver: resolver}
}

func (u *claimUseCase) PendingSpecials(ctx context.Context) ([]entity.LineItem, error) {
	items, err := u.ledgerRepo.Load(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read ledger", Err: err}
	}

	var pending []entity.LineItem
	for _, item := range items {
		if u.resolver.IsSpecial(item.ProductName) && !strings.Contains(item.Note, constants.NoteClaimedMarker) {
			pending = append(pending, item)
		}
	}
	return pending, nil
}

func (u *claimUseCase) Claim(ctx context.Context, orderID, realLabel string, realCost float64, remember bool) error {
	items, err := u.ledgerRepo.Load(ctx)
	if err != nil {
		return &entity.StoreError{Op: "read ledger", Err: err}
	}

	orderID = strings.TrimSpace(orderID)
	idx := -1
	for i, item := range items {
		if strings.TrimSpace(item.OrderID) == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("找不到訂單 %s", orderID)
	}

	item := items[idx]
	item.Cost = realCost
	item.Profit = item.Payout - realCost*float64(item.Quantity)
	item.Note = constants.NoteClaimedPrefix + realLabel
	items[idx] = item

	if err := u.ledgerRepo.ReplaceAll(ctx, items); err != nil {
		return &entity.StoreError{Op: "write ledger", Err: err}
	}

	if !remember {
		return nil
	}
	if u.resolver.IsDenylisted(item.ProductName) {
		// Row update above is already committed; only the memory write is refused.
		return entity.ErrDenylistedRemember
	}
	_, err = u.memoryRepo.SaveRule(ctx, entity.MemoryRule{
		ProductName: strings.TrimSpace(item.ProductName),
		OptionName:  strings.TrimSpace(item.OptionName),
		RealSKU:     realLabel,
		RealCost:    realCost,
	})
	if err != nil {
		return &entity.StoreError{Op: "write memory rule", Err: err}
	}
	return nil
}
