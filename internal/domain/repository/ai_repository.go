package repository

import "context"

// AIRepository optional AI helper for the claim flow.
type AIRepository interface {
	// SuggestClaim picks the catalog menu label most likely to be the real
	// product behind an ambiguous line item. Returns "" when the model has
	// no confident pick.
	SuggestClaim(ctx context.Context, productName, optionName string, menuLabels []string) (string, error)

	// Close releases the underlying client.
	Close() error
}
