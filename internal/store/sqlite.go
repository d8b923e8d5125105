package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/shopchat/internal/domain"
	"github.com/ashureev/shopchat/internal/shared"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry shared.RetryPolicy
}

// Ensure SQLiteStore implements Repository.
var _ Repository = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// modernc applies connection pragmas through _pragma parameters.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, retry: shared.DefaultRetryPolicy}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS receipts (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		vendor TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		total REAL NOT NULL,
		success INTEGER NOT NULL,
		message TEXT NOT NULL,
		transaction_id TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_receipts_session ON receipts(session_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveReceipt inserts a receipt, retrying while the database is locked.
func (s *SQLiteStore) SaveReceipt(ctx context.Context, r *domain.Receipt) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO receipts (id, session_id, product_name, vendor, quantity, total,
		success, message, transaction_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var txID interface{}
	if r.TransactionID != "" {
		txID = r.TransactionID
	}

	err := shared.RetryOnConflict(ctx, s.retry, "save_receipt", func() error {
		_, err := s.db.ExecContext(ctx, query,
			r.ID, r.SessionID, r.ProductName, r.Vendor, r.Quantity, r.Total,
			r.Success, r.Message, txID, r.CreatedAt.UnixMilli(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// ListReceipts returns the receipts of a session, newest first.
func (s *SQLiteStore) ListReceipts(ctx context.Context, sessionID string) ([]*domain.Receipt, error) {
	query := `
		SELECT id, session_id, product_name, vendor, quantity, total,
		       success, message, transaction_id, created_at
		FROM receipts WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close receipt rows", "error", closeErr)
		}
	}()

	receipts := []*domain.Receipt{}
	for rows.Next() {
		var r domain.Receipt
		var txID sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.ProductName, &r.Vendor, &r.Quantity, &r.Total,
			&r.Success, &r.Message, &txID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		r.TransactionID = txID.String
		r.CreatedAt = time.UnixMilli(createdAt)
		receipts = append(receipts, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}

	return receipts, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
