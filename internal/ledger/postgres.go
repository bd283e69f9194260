package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Postgres 生产环境账户, 多实例共享.
type Postgres struct {
	db *sql.DB
}

// NewPostgres 连接账户数据库并确保表结构存在.
func NewPostgres(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("ledger: empty postgres dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS ledger_balances (
    user_id TEXT PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0,
    updated_at_ms BIGINT NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS ledger_entries (
    id BIGSERIAL PRIMARY KEY,
    user_id TEXT NOT NULL,
    delta BIGINT NOT NULL,
    ref TEXT NOT NULL DEFAULT '',
    created_at_ms BIGINT NOT NULL
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

func (s *Postgres) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Postgres) Credit(ctx context.Context, userID string, amount int64, ref string) error {
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
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET
    balance = ledger_balances.balance + excluded.balance,
    updated_at_ms = excluded.updated_at_ms`,
		userID, amount, nowMs); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO ledger_entries (user_id, delta, ref, created_at_ms)
VALUES ($1, $2, $3, $4)`,
		userID, amount, ref, nowMs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Postgres) Debit(ctx context.Context, userID string, amount int64, ref string) error {
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

	res, err := tx.ExecContext(ctx, `
UPDATE ledger_balances
SET balance = balance - $1, updated_at_ms = $2
WHERE user_id = $3 AND balance >= $1`,
		amount, nowMs, userID)
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
VALUES ($1, $2, $3, $4)`,
		userID, -amount, ref, nowMs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Postgres) Balance(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM ledger_balances WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
