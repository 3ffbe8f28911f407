package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: users, categories, accounts, transactions",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					email TEXT UNIQUE,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS account_categories (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL UNIQUE
				)`,

				`CREATE TABLE IF NOT EXISTS transaction_categories (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL UNIQUE
				)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					category_id INTEGER NOT NULL REFERENCES account_categories(id),
					balance TEXT NOT NULL DEFAULT '0',
					user_id INTEGER NOT NULL REFERENCES users(id),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(user_id, category_id, name)
				)`,
				`CREATE INDEX idx_accounts_user ON accounts(user_id)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					amount TEXT NOT NULL,
					date_time DATETIME NOT NULL,
					category_id INTEGER NOT NULL REFERENCES transaction_categories(id),
					account_id INTEGER NOT NULL REFERENCES accounts(id),
					type TEXT NOT NULL CHECK (type IN ('C', 'D')),
					description TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_date ON transactions(date_time)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}

			// Seed reference data. Category ids are stable and referenced
			// directly (transfer legs are pinned to transaction category 10).
			seeds := []string{
				`INSERT INTO account_categories (id, name) VALUES
					(1, 'Checking'),
					(2, 'Savings'),
					(3, 'Credit Card'),
					(4, 'Investment'),
					(5, 'Cash')`,
				`INSERT INTO transaction_categories (id, name) VALUES
					(1, 'Income'),
					(2, 'Food & Dining'),
					(3, 'Transportation'),
					(4, 'Shopping'),
					(5, 'Entertainment'),
					(6, 'Bills & Utilities'),
					(7, 'Healthcare'),
					(8, 'Education'),
					(9, 'Investment'),
					(10, 'Other')`,
			}

			for _, query := range seeds {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to seed categories: %w", err)
				}
			}

			return nil
		},
	},
	{
		Version:     2,
		Description: "Add optimistic concurrency version to accounts",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE accounts ADD COLUMN version INTEGER NOT NULL DEFAULT 0`)
			if err != nil {
				return fmt.Errorf("failed to add version column: %w", err)
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add transfers",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transfers (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					amount TEXT NOT NULL,
					date_time DATETIME NOT NULL,
					from_account_id INTEGER NOT NULL REFERENCES accounts(id),
					to_account_id INTEGER NOT NULL REFERENCES accounts(id),
					user_id INTEGER NOT NULL REFERENCES users(id),
					description TEXT NOT NULL DEFAULT '',
					reference_number TEXT NOT NULL UNIQUE,
					debit_transaction_id INTEGER REFERENCES transactions(id),
					credit_transaction_id INTEGER REFERENCES transactions(id),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transfers_user ON transfers(user_id)`,
				`CREATE INDEX idx_transfers_date ON transfers(date_time)`,
				`CREATE INDEX idx_transfers_debit_txn ON transfers(debit_transaction_id)`,
				`CREATE INDEX idx_transfers_credit_txn ON transfers(credit_transaction_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}

			return nil
		},
	},
}

// Migrate runs all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d after migrations, expected %d", final, ExpectedSchemaVersion)
	}

	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
