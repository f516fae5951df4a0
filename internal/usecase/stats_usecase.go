package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

// StatsUseCase the daily dashboard over the persisted ledger.
type StatsUseCase interface {
	// Dates returns the distinct order dates in the ledger, newest first.
	Dates(ctx context.Context) ([]string, error)

	// Daily aggregates one date. Unresolved special rows are excluded from
	// the money columns and listed separately.
	Daily(ctx context.Context, date string) (*entity.DailyStats, error)
}

type statsUseCase struct {
	ledgerRepo repository.LedgerRepository
	resolver   *CostResolver
}

// NewStatsUseCase builds the dashboard usecase.
func NewStatsUseCase(ledgerRepo repository.LedgerRepository, resolver *CostResolver) StatsUseCase {
	return &statsUseCase{ledgerRepo: ledgerRepo, resolver: resolver}
}

var orderDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

func dateLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func (u *statsUseCase) Dates(ctx context.Context) ([]string, error) {
	items, err := u.ledgerRepo.Load(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read ledger", Err: err}
	}

	seen := make(map[string]struct{})
	var dates []string
	for _, item := range items {
		label := dateLabel(item.OrderDate)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		dates = append(dates, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (u *statsUseCase) Daily(ctx context.Context, date string) (*entity.DailyStats, error) {
	items, err := u.ledgerRepo.Load(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read ledger", Err: err}
	}

	stats := &entity.DailyStats{Date: date}
	for _, item := range items {
		if dateLabel(item.OrderDate) != date {
			continue
		}
		if u.resolver.IsSpecial(item.ProductName) && !strings.Contains(item.Note, constants.NoteClaimedMarker) {
			stats.Unresolved = append(stats.Unresolved, item)
			continue
		}
		stats.Items = append(stats.Items, item)
		stats.Revenue += item.Price
		stats.Cost += item.Cost * float64(item.Quantity)
		stats.Profit += item.Profit
		stats.Orders++
	}
	if stats.Revenue > 0 {
		stats.Margin = stats.Profit / stats.Revenue * 100
	}
	return stats, nil
}
