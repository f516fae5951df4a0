package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/yourusername/shopee-finance-bot/internal/domain/constants"
	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

// Store Google Sheets implementation of repository.SheetStore, authenticated
// with a service-account credentials file. The backing spreadsheets have no
// transactional isolation; serialization is up to the single operator.
type Store struct {
	svc *sheetsapi.Service

	mu         sync.Mutex
	firstSheet map[string]string // spreadsheet ID -> first worksheet title
}

// NewStore builds a Sheets client from a service-account JSON file.
func NewStore(ctx context.Context, credentialsFile string) (*Store, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &Store{svc: svc, firstSheet: make(map[string]string)}, nil
}

var _ repository.SheetStore = (*Store)(nil)

// rangeFor returns the A1 range covering a whole worksheet.
func rangeFor(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func (s *Store) resolveSheet(ctx context.Context, spreadsheetID, sheet string) (string, error) {
	if sheet != "" {
		return sheet, nil
	}

	s.mu.Lock()
	cached, ok := s.firstSheet[spreadsheetID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	meta, err := s.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}
	title := meta.Sheets[0].Properties.Title

	s.mu.Lock()
	s.firstSheet[spreadsheetID] = title
	s.mu.Unlock()
	return title, nil
}

func (s *Store) ReadAll(ctx context.Context, spreadsheetID, sheet string) ([][]string, error) {
	title, err := s.resolveSheet(ctx, spreadsheetID, sheet)
	if err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rangeFor(title)).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", title, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		values[i] = cells
	}
	return values
}

func (s *Store) AppendRows(ctx context.Context, spreadsheetID, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	title, err := s.resolveSheet(ctx, spreadsheetID, sheet)
	if err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.Values.Append(spreadsheetID, rangeFor(title), &sheetsapi.ValueRange{
		Values: toValues(rows),
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", title, err)
	}
	return nil
}

func (s *Store) OverwriteAll(ctx context.Context, spreadsheetID, sheet string, rows [][]string) error {
	title, err := s.resolveSheet(ctx, spreadsheetID, sheet)
	if err != nil {
		return err
	}
	if _, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rangeFor(title), &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", title, err)
	}
	if len(rows) == 0 {
		return nil
	}
	_, err = s.svc.Spreadsheets.Values.Update(spreadsheetID, rangeFor(title)+"!A1", &sheetsapi.ValueRange{
		Values: toValues(rows),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", title, err)
	}
	return nil
}

func (s *Store) EnsureSheet(ctx context.Context, spreadsheetID, sheet string) error {
	if sheet == "" {
		return nil
	}
	titles, err := s.ListSheets(ctx, spreadsheetID)
	if err != nil {
		return err
	}
	for _, t := range titles {
		if t == sheet {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: sheet,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    constants.MemorySheetRows,
						ColumnCount: constants.MemorySheetCols,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add worksheet %s: %w", sheet, err)
	}
	return nil
}

func (s *Store) ListSheets(ctx context.Context, spreadsheetID string) ([]string, error) {
	meta, err := s.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		titles = append(titles, sh.Properties.Title)
	}
	return titles, nil
}
