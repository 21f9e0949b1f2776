package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/models/config"
)

func NewPostgres() (*sqlx.DB, error) {
	cfg := config.AppConfig.Database

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Printf("🗄️  Подключено к PostgreSQL: %s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
	return db, nil
}

// WithAdvisoryLock runs fn inside a transaction that holds the named
// Postgres advisory lock. The lock is transaction-scoped, so it is released
// on commit and rollback alike; every writer that takes the same name is
// fully serialized against the others.
func WithAdvisoryLock(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lock transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", name, err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
