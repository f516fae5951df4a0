package usecase

import (
	"strings"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

// MergeLedger partitions an incoming batch against order IDs already present
// in the ledger. Accepted rows keep their original relative order; skipped is
// the number of rows whose trimmed order ID already exists. The function is
// pure: callers persist the full accepted set (or nothing) afterwards.
//
// Rows with an empty order ID never match an existing ID and are always
// accepted; upstream parsing should guard against them. Duplicate order IDs
// within one batch are all kept: a multi-SKU order exports one row per line
// item under the same order ID.
func MergeLedger(existingIDs map[string]struct{}, batch []entity.LineItem) (accepted []entity.LineItem, skipped int) {
	for _, item := range batch {
		id := strings.TrimSpace(item.OrderID)
		if id != "" {
			if _, ok := existingIDs[id]; ok {
				skipped++
				continue
			}
		}
		accepted = append(accepted, item)
	}
	return accepted, skipped
}

// OrderIDSet collects the trimmed non-empty order IDs of the given rows, the
// membership set MergeLedger matches against. Empty IDs are left out on
// purpose: such rows never count as duplicates.
func OrderIDSet(items []entity.LineItem) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		if id := strings.TrimSpace(item.OrderID); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}
