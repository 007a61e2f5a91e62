package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/eaglebank/ledger-service/internal/config"

	_ "github.com/lib/pq"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE,
		balance NUMERIC(15, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS transfers (
		id SERIAL PRIMARY KEY,
		sender_id INTEGER NOT NULL REFERENCES accounts(id),
		receiver_id INTEGER NOT NULL REFERENCES accounts(id),
		amount NUMERIC(15, 2) NOT NULL CHECK (amount > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (sender_id <> receiver_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_transfers_created_at ON transfers(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_sender_id ON transfers(sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_receiver_id ON transfers(receiver_id)`,
}

// ConnectPostgres opens the pool, applies the pool limits from cfg and
// verifies connectivity. The caller owns the returned pool and must Close it.
func ConnectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Migrations completed")
	}

	logger.Info("PostgreSQL connection established", "db", cfg.MaskedDSN(), "max_open_conns", cfg.DBMaxOpenConns)
	return db, nil
}

// Migrate creates the ledger schema. All statements run in one transaction
// and are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, migration := range migrations {
		if _, err := tx.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	return nil
}
