package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/shopee-finance-bot/internal/domain/entity"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

// CostTable the parsed product-cost table, deduplicated by SKU code.
type CostTable struct {
	Entries []entity.CostEntry

	// Synthesized is true when the sheet had no recognizable header row and
	// the default one was assumed.
	Synthesized bool
}

// ByCode indexes the table by cleaned SKU code.
func (t *CostTable) ByCode() map[string]entity.CostEntry {
	m := make(map[string]entity.CostEntry, len(t.Entries))
	for _, e := range t.Entries {
		m[e.SKUCode] = e
	}
	return m
}

// MenuLabels returns the "name | cost" labels shown in the claim menu.
func (t *CostTable) MenuLabels() []string {
	labels := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		labels = append(labels, e.MenuLabel())
	}
	return labels
}

// LabelIndex maps menu labels back to their entries.
func (t *CostTable) LabelIndex() map[string]entity.CostEntry {
	m := make(map[string]entity.CostEntry, len(t.Entries))
	for _, e := range t.Entries {
		m[e.MenuLabel()] = e
	}
	return m
}

// CatalogUseCase product-cost table maintenance.
type CatalogUseCase interface {
	// LoadCostTable reads and normalizes the cost table.
	LoadCostTable(ctx context.Context) (*CostTable, error)

	// SyncNewProducts appends catalog rows for products whose key is not in
	// the table yet, with cost 0. Returns the number of rows added.
	SyncNewProducts(ctx context.Context, products []entity.MassProduct) (int, error)

	// RescueLegacyCosts fills zero costs in the table from the legacy cost
	// spreadsheet. Returns the number of rows updated.
	RescueLegacyCosts(ctx context.Context) (int, error)

	// FindCode lists every raw catalog row whose cleaned code matches,
	// duplicates included, with original row numbers.
	FindCode(ctx context.Context, code string) ([]entity.CostEntry, error)
}

type catalogUseCase struct {
	catalogRepo repository.CatalogRepository
	tableName   string
}

// NewCatalogUseCase builds the catalog usecase. tableName only labels error
// messages (商品編碼表).
func NewCatalogUseCase(catalogRepo repository.CatalogRepository, tableName string) CatalogUseCase {
	return &catalogUseCase{catalogRepo: catalogRepo, tableName: tableName}
}

var costTableHeader = []string{"商品名稱", "蝦皮商品編碼", "成本"}

// parseCostGrid applies the header heuristics of the cost sheet: a first row
// mentioning 商品 or 成本 is the header; otherwise the default header is
// assumed over all rows. Returns every data row, duplicates included.
func parseCostGrid(grid [][]string, tableName string) ([]entity.CostEntry, bool, error) {
	if len(grid) == 0 {
		return nil, false, nil
	}

	header := grid[0]
	data := grid[1:]
	synthesized := false
	firstRow := strings.Join(grid[0], " ")
	if !strings.Contains(firstRow, "商品") && !strings.Contains(firstRow, "成本") {
		header = make([]string, len(grid[0]))
		copy(header, costTableHeader[:minInt(len(header), len(costTableHeader))])
		for i := len(costTableHeader); i < len(header); i++ {
			header[i] = fmt.Sprintf("Col_%d", i+1)
		}
		data = grid
		synthesized = true
	}

	nameCol, codeCol, costCol := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "商品名稱", "商品":
			if nameCol < 0 {
				nameCol = i
			}
		case "蝦皮商品編碼":
			codeCol = i
		case "成本":
			costCol = i
		}
	}
	if codeCol < 0 {
		return nil, synthesized, &entity.MissingFieldError{Table: tableName, Field: "蝦皮商品編碼"}
	}
	if costCol < 0 {
		return nil, synthesized, &entity.MissingFieldError{Table: tableName, Field: "成本"}
	}

	rowBase := 2 // data starts on sheet row 2 when a header row exists
	if synthesized {
		rowBase = 1
	}

	entries := make([]entity.CostEntry, 0, len(data))
	for i, row := range data {
		e := entity.CostEntry{RowNo: rowBase + i}
		if nameCol >= 0 && nameCol < len(row) {
			e.Name = strings.TrimSpace(row[nameCol])
		}
		if codeCol < len(row) {
			e.SKUCode = entity.CleanID(row[codeCol])
		}
		if costCol < len(row) {
			e.Cost = entity.ParseAmount(row[costCol])
		}
		entries = append(entries, e)
	}
	return entries, synthesized, nil
}

// dedupeEntries keeps one entry per SKU code. When a code appears both with
// zero and with positive cost, the positive entry wins; among equals the
// later row wins.
func dedupeEntries(entries []entity.CostEntry) []entity.CostEntry {
	sorted := make([]entity.CostEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SKUCode != sorted[j].SKUCode {
			return sorted[i].SKUCode < sorted[j].SKUCode
		}
		return !hasCost(sorted[i]) && hasCost(sorted[j])
	})

	var out []entity.CostEntry
	for _, e := range sorted {
		if n := len(out); n > 0 && out[n-1].SKUCode == e.SKUCode {
			out[n-1] = e
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasCost(e entity.CostEntry) bool { return e.Cost > 0 }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (u *catalogUseCase) LoadCostTable(ctx context.Context) (*CostTable, error) {
	grid, err := u.catalogRepo.ReadGrid(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read " + u.tableName, Err: err}
	}
	entries, synthesized, err := parseCostGrid(grid, u.tableName)
	if err != nil {
		return nil, err
	}
	return &CostTable{Entries: dedupeEntries(entries), Synthesized: synthesized}, nil
}

func (u *catalogUseCase) SyncNewProducts(ctx context.Context, products []entity.MassProduct) (int, error) {
	grid, err := u.catalogRepo.ReadGrid(ctx)
	if err != nil {
		return 0, &entity.StoreError{Op: "read " + u.tableName, Err: err}
	}

	existing := make(map[string]struct{})
	if len(grid) > 1 {
		for _, row := range grid[1:] {
			if len(row) > 1 {
				existing[entity.CleanID(row[1])] = struct{}{}
			}
		}
	} else if len(grid) == 0 {
		if err := u.catalogRepo.AppendRows(ctx, [][]string{costTableHeader}); err != nil {
			return 0, &entity.StoreError{Op: "init " + u.tableName, Err: err}
		}
	}

	var rows [][]string
	for _, p := range products {
		key := entity.CleanID(p.Key)
		if key == "" || key == "_" {
			continue
		}
		if _, ok := existing[key]; ok {
			continue
		}
		rows = append(rows, []string{p.FullName, key, "0"})
		existing[key] = struct{}{}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := u.catalogRepo.AppendRows(ctx, rows); err != nil {
		return 0, &entity.StoreError{Op: "append " + u.tableName, Err: err}
	}
	return len(rows), nil
}

var (
	legacyIDColumns   = []string{"蝦皮商品編碼", "商品編碼", "商品ID", "編碼", "ID"}
	legacyCostColumns = []string{"成本", "Cost", "cost", "進貨成本", "進價"}
)

func (u *catalogUseCase) RescueLegacyCosts(ctx context.Context) (int, error) {
	grids, err := u.catalogRepo.ReadLegacyGrids(ctx)
	if err != nil {
		return 0, &entity.StoreError{Op: "read legacy table", Err: err}
	}

	costMap := u.legacyCostMap(grids)
	if costMap == nil {
		return 0, fmt.Errorf("舊表無可用資料")
	}

	grid, err := u.catalogRepo.ReadGrid(ctx)
	if err != nil {
		return 0, &entity.StoreError{Op: "read " + u.tableName, Err: err}
	}
	if len(grid) == 0 {
		return 0, nil
	}

	codeCol, costCol := -1, -1
	for i, h := range grid[0] {
		switch strings.TrimSpace(h) {
		case "蝦皮商品編碼":
			codeCol = i
		case "成本":
			costCol = i
		}
	}
	if codeCol < 0 || costCol < 0 {
		return 0, &entity.MissingFieldError{Table: u.tableName, Field: "蝦皮商品編碼/成本"}
	}

	updated := 0
	for _, row := range grid[1:] {
		if codeCol >= len(row) || costCol >= len(row) {
			continue
		}
		if entity.ParseAmount(row[costCol]) != 0 {
			continue
		}
		code := entity.CleanID(row[codeCol])
		if cost, ok := costMap[code]; ok {
			row[costCol] = entity.FormatAmount(cost)
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := u.catalogRepo.OverwriteGrid(ctx, grid); err != nil {
		return 0, &entity.StoreError{Op: "write " + u.tableName, Err: err}
	}
	return updated, nil
}

// legacyCostMap scans the legacy spreadsheet's worksheets for the first one
// that looks like a cost table and maps cleaned code → positive cost.
func (u *catalogUseCase) legacyCostMap(grids [][][]string) map[string]float64 {
	for _, grid := range grids {
		if len(grid) <= 2 {
			continue
		}
		headerRow := strings.Join(grid[0], " ")
		if !strings.Contains(headerRow, "編碼") && !strings.Contains(headerRow, "ID") && !strings.Contains(headerRow, "成本") {
			continue
		}

		idCol, costCol := -1, -1
		for _, want := range legacyIDColumns {
			for i, h := range grid[0] {
				if strings.TrimSpace(h) == want {
					idCol = i
					break
				}
			}
			if idCol >= 0 {
				break
			}
		}
		for _, want := range legacyCostColumns {
			for i, h := range grid[0] {
				if strings.TrimSpace(h) == want {
					costCol = i
					break
				}
			}
			if costCol >= 0 {
				break
			}
		}
		if idCol < 0 || costCol < 0 {
			return nil
		}

		costMap := make(map[string]float64)
		for _, row := range grid[1:] {
			if idCol >= len(row) || costCol >= len(row) {
				continue
			}
			if cost := entity.ParseAmount(row[costCol]); cost > 0 {
				costMap[entity.CleanID(row[idCol])] = cost
			}
		}
		return costMap
	}
	return nil
}

func (u *catalogUseCase) FindCode(ctx context.Context, code string) ([]entity.CostEntry, error) {
	grid, err := u.catalogRepo.ReadGrid(ctx)
	if err != nil {
		return nil, &entity.StoreError{Op: "read " + u.tableName, Err: err}
	}
	entries, _, err := parseCostGrid(grid, u.tableName)
	if err != nil {
		return nil, err
	}

	target := entity.CleanID(code)
	var matches []entity.CostEntry
	for _, e := range entries {
		if e.SKUCode == target {
			matches = append(matches, e)
		}
	}
	return matches, nil
}
