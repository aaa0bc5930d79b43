// Package storage persists the order and quote submission ledger in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"

	_ "modernc.org/sqlite"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	defaultListLimit = 50
	maxListLimit     = 500
)

type Ledger struct {
	sql *sql.DB
}

// ListOptions filters ledger reads. Zero values mean no filter.
type ListOptions struct {
	Kind   string
	Status string
	Limit  int
}

func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS submissions (
  id               INTEGER PRIMARY KEY,
  correlation_id   TEXT NOT NULL UNIQUE,
  kind             TEXT NOT NULL CHECK (kind IN ('order','quote')),
  session_id       TEXT,
  product_id       TEXT NOT NULL,
  product_name     TEXT,
  total_price      REAL NOT NULL,
  lease_term       INTEGER NOT NULL DEFAULT 0,
  apr              REAL NOT NULL DEFAULT 0,
  down_payment     REAL NOT NULL DEFAULT 0,
  monthly_payment  REAL NOT NULL DEFAULT 0,
  status           TEXT NOT NULL CHECK (status IN ('succeeded','failed')),
  external_id      TEXT,
  error            TEXT,
  created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
CREATE INDEX IF NOT EXISTS idx_submissions_product ON submissions(product_id, created_at);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{sql: db}, nil
}

func (l *Ledger) Close() error {
	if l == nil || l.sql == nil {
		return nil
	}
	return l.sql.Close()
}

// Record appends one submission attempt and returns its row id
func (l *Ledger) Record(ctx context.Context, rec models.SubmissionRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := l.sql.ExecContext(ctx, `INSERT INTO submissions(correlation_id, kind, session_id, product_id, product_name, total_price, lease_term, apr, down_payment, monthly_payment, status, external_id, error, created_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.CorrelationID, rec.Kind, nullIfEmpty(rec.SessionID), rec.ProductID, nullIfEmpty(rec.ProductName),
		rec.TotalPrice, rec.LeaseTerm, rec.APR, rec.DownPayment, rec.MonthlyPayment,
		rec.Status, nullIfEmpty(rec.ExternalID), nullIfEmpty(rec.Error),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to record %s submission: %w", rec.Kind, err)
	}
	return res.LastInsertId()
}

// List returns the most recent submissions first
func (l *Ledger) List(ctx context.Context, opts ListOptions) ([]models.SubmissionRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var (
		where []string
		args  []interface{}
	)
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := `SELECT id, correlation_id, kind, session_id, product_id, product_name, total_price, lease_term, apr, down_payment, monthly_payment, status, external_id, error, created_at FROM submissions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubmissionRecord
	for rows.Next() {
		var (
			rec                                   models.SubmissionRecord
			sessionID, productName, extID, errStr sql.NullString
			createdAtStr                          string
		)
		if err := rows.Scan(&rec.ID, &rec.CorrelationID, &rec.Kind, &sessionID, &rec.ProductID, &productName,
			&rec.TotalPrice, &rec.LeaseTerm, &rec.APR, &rec.DownPayment, &rec.MonthlyPayment,
			&rec.Status, &extID, &errStr, &createdAtStr); err != nil {
			return nil, err
		}
		rec.SessionID = sessionID.String
		rec.ProductName = productName.String
		rec.ExternalID = extID.String
		rec.Error = errStr.String
		if t, perr := time.Parse(time.RFC3339Nano, createdAtStr); perr == nil {
			rec.CreatedAt = t
		} else if t2, perr2 := time.Parse("2006-01-02 15:04:05", createdAtStr); perr2 == nil {
			rec.CreatedAt = t2
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of rows per status
func (l *Ledger) Count(ctx context.Context) (map[string]int, error) {
	rows, err := l.sql.QueryContext(ctx, "SELECT status, COUNT(*) FROM submissions GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{StatusSucceeded: 0, StatusFailed: 0}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
