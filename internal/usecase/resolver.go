package usecase

import (
	"strings"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
)

// ResolveSource names the lookup strategy that produced a resolution.
type ResolveSource string

const (
	// SourceMemory exact memory rule on (product, option)
	SourceMemory ResolveSource = "memory"

	// SourceMemoryLegacy memory rule recorded before options were tracked
	SourceMemoryLegacy ResolveSource = "memory_legacy"

	// SourceCatalog exact catalog-name match of the candidate name
	SourceCatalog ResolveSource = "catalog"

	// SourceCatalogNormalized normalized catalog-name match
	SourceCatalogNormalized ResolveSource = "catalog_normalized"
)

// Resolution the true unit cost and real product label of a special row.
type Resolution struct {
	Cost   float64
	Label  string
	Source ResolveSource
}

// CostResolver resolves special line items against the memory-rule table and
// the cost catalog. Resolution is read-only; memory rules are written only
// through the explicit claim path.
type CostResolver struct {
	markers    []string
	denyMarker string
}

// NewCostResolver builds a resolver for the configured marker list.
func NewCostResolver(markers []string, denyMarker string) *CostResolver {
	return &CostResolver{markers: markers, denyMarker: denyMarker}
}

// IsSpecial gates which line items enter the resolver at all.
func (r *CostResolver) IsSpecial(productName string) bool {
	return IsSpecial(productName, r.markers)
}

// IsDenylisted reports whether a product name must never be remembered.
func (r *CostResolver) IsDenylisted(productName string) bool {
	return r.denyMarker != "" && strings.Contains(productName, r.denyMarker)
}

// Resolve runs the priority chain. First hit wins:
//  1. memory rule on (product, option)
//  2. memory rule on (product, ""), rules saved before options were tracked
//  3. exact catalog-name match of the candidate name
//  4. normalized catalog-name match
func (r *CostResolver) Resolve(
	productName, optionName string,
	rules map[entity.MemoryKey]entity.MemoryRule,
	catalog []entity.CostEntry,
) (Resolution, bool) {
	productName = strings.TrimSpace(productName)
	optionName = strings.TrimSpace(optionName)

	if rule, ok := rules[entity.MemoryKey{ProductName: productName, OptionName: optionName}]; ok {
		return Resolution{Cost: rule.RealCost, Label: rule.RealSKU, Source: SourceMemory}, true
	}
	if optionName != "" {
		if rule, ok := rules[entity.MemoryKey{ProductName: productName}]; ok {
			return Resolution{Cost: rule.RealCost, Label: rule.RealSKU, Source: SourceMemoryLegacy}, true
		}
	}

	candidates := []string{CandidateName(productName, optionName)}
	if optionName != "" {
		candidates = append(candidates, productName)
	}

	byName := make(map[string]entity.CostEntry, len(catalog))
	byNorm := make(map[string]entity.CostEntry, len(catalog))
	for _, e := range catalog {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if _, ok := byName[name]; !ok {
			byName[name] = e
		}
		if norm := Normalize(name); norm != "" {
			if _, ok := byNorm[norm]; !ok {
				byNorm[norm] = e
			}
		}
	}

	for _, cand := range candidates {
		if e, ok := byName[cand]; ok {
			return Resolution{Cost: e.Cost, Label: e.Name, Source: SourceCatalog}, true
		}
	}
	for _, cand := range candidates {
		if e, ok := byNorm[Normalize(cand)]; ok {
			return Resolution{Cost: e.Cost, Label: e.Name, Source: SourceCatalogNormalized}, true
		}
	}

	return Resolution{}, false
}
