package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const opTimeout = 3 * time.Second

// SQLite 本地单文件账户. 连接数固定为 1, WAL 模式.
type SQLite struct {
	db *sql.DB
}

// NewSQLite 打开(或创建)账户数据库. path 为 ":memory:" 时纯内存.
func NewSQLite(path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("ledger: empty sqlite database path")
	}
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS ledger_balances (
    user_id TEXT PRIMARY KEY,
    balance INTEGER NOT NULL DEFAULT 0,
    updated_at_ms INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS ledger_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    delta INTEGER NOT NULL,
    ref TEXT NOT NULL DEFAULT '',
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_user ON ledger_entries(user_id, id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Credit(ctx context.Context, userID string, amount int64, ref string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	nowMs := time.Now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO ledger_balances (user_id, balance, updated_at_ms)
VALUES (?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    balance = balance + excluded.balance,
    updated_at_ms = excluded.updated_at_ms`,
		userID, amount, nowMs); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO ledger_entries (user_id, delta, ref, created_at_ms)
VALUES (?, ?, ?, ?)`,
		userID, amount, ref, nowMs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Debit(ctx context.Context, userID string, amount int64, ref string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	nowMs := time.Now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 条件更新保证不透支; 没命中行说明余额不足或账户不存在.
	res, err := tx.ExecContext(ctx, `
UPDATE ledger_balances
SET balance = balance - ?, updated_at_ms = ?
WHERE user_id = ? AND balance >= ?`,
		amount, nowMs, userID, amount)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientFunds
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO ledger_entries (user_id, delta, ref, created_at_ms)
VALUES (?, ?, ?, ?)`,
		userID, -amount, ref, nowMs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Balance(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM ledger_balances WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
