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
		Description: "Ledger schema: categories and transactions",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categorias (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					titulo TEXT NOT NULL COLLATE NOCASE UNIQUE,
					cor TEXT NOT NULL,
					valor INTEGER NOT NULL DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					category_id INTEGER,
					type TEXT CHECK(type IN ('entrada', 'saida')) NOT NULL,
					value INTEGER NOT NULL,
					date TEXT NOT NULL,
					FOREIGN KEY (category_id) REFERENCES categorias(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Annotation tables for budget notes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS anotacoes (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					mes TEXT NOT NULL,
					tipo TEXT CHECK(tipo IN ('receber', 'pagar')) NOT NULL DEFAULT 'pagar'
				)`,

				`CREATE TABLE IF NOT EXISTS anotacao_itens (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					anotacao_id INTEGER NOT NULL,
					conteudo TEXT NOT NULL,
					valor INTEGER NOT NULL,
					concluido INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (anotacao_id) REFERENCES anotacoes(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_anotacao_itens_anotacao ON anotacao_itens(anotacao_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add free-text label for income transactions",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`ALTER TABLE transactions ADD COLUMN label TEXT`); err != nil {
				return fmt.Errorf("failed to add label column: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations. It is safe to call on every
// startup: already-applied versions are skipped via PRAGMA user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the schema version the database is currently at.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
