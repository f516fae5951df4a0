package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/yourusername/shopee-finance-bot/internal/domain/repository"
)

const (
	postgresConnectAttemptsDefault = 20
	postgresConnectDelayDefault    = 2 * time.Second
)

// BuildPostgresDSNFromEnv composes a DSN from POSTGRES_* variables. Returns
// "" when the backend is not configured.
func BuildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := os.Getenv("POSTGRES_PASSWORD")
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	sslmode := strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE"))

	if host == "" || user == "" || db == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	db = strings.TrimPrefix(db, "/")
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	attempts := getenvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", postgresConnectAttemptsDefault)
	delaySeconds := getenvInt("POSTGRES_CONNECT_RETRY_SECONDS", int(postgresConnectDelayDefault/time.Second))
	delay := time.Duration(delaySeconds) * time.Second
	if attempts <= 0 {
		attempts = postgresConnectAttemptsDefault
	}
	if delay <= 0 {
		delay = postgresConnectDelayDefault
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

type postgresSheetStore struct {
	db *sql.DB
}

// NewPostgresSheetStore Postgres-backed SheetStore: an offline mirror of the
// spreadsheet tables, one row per sheet row.
func NewPostgresSheetStore(dsn string) (repository.SheetStore, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
    spreadsheet TEXT   NOT NULL,
    worksheet   TEXT   NOT NULL,
    row_idx     INT    NOT NULL,
    cells       TEXT[] NOT NULL,
    PRIMARY KEY (spreadsheet, worksheet, row_idx)
)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sheet_rows: %w", err)
	}
	return &postgresSheetStore{db: db}, nil
}

func (s *postgresSheetStore) ReadAll(ctx context.Context, spreadsheetID, sheet string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE spreadsheet = $1 AND worksheet = $2 ORDER BY row_idx`,
		spreadsheetID, sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		var cells pq.StringArray
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		grid = append(grid, []string(cells))
	}
	return grid, rows.Err()
}

func (s *postgresSheetStore) AppendRows(ctx context.Context, spreadsheetID, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_idx) + 1, 0) FROM sheet_rows WHERE spreadsheet = $1 AND worksheet = $2`,
		spreadsheetID, sheet).Scan(&next)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (spreadsheet, worksheet, row_idx, cells) VALUES ($1, $2, $3, $4)`,
			spreadsheetID, sheet, next+i, pq.Array(row)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *postgresSheetStore) OverwriteAll(ctx context.Context, spreadsheetID, sheet string, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sheet_rows WHERE spreadsheet = $1 AND worksheet = $2`,
		spreadsheetID, sheet); err != nil {
		return err
	}
	for i, row := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (spreadsheet, worksheet, row_idx, cells) VALUES ($1, $2, $3, $4)`,
			spreadsheetID, sheet, i, pq.Array(row)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *postgresSheetStore) EnsureSheet(ctx context.Context, spreadsheetID, sheet string) error {
	// Worksheets materialize on first write; nothing to create up front.
	return nil
}

func (s *postgresSheetStore) ListSheets(ctx context.Context, spreadsheetID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT worksheet FROM sheet_rows WHERE spreadsheet = $1 ORDER BY worksheet`,
		spreadsheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		sheets = append(sheets, name)
	}
	return sheets, rows.Err()
}
