package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cofrinho/internal/common"
	"cofrinho/internal/model"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// CreateCategory inserts a new category with a zero balance. A title that
// matches an existing category case-insensitively is rejected with
// common.ErrDuplicateCategory; the UNIQUE constraint on titulo backs this up.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, title, color string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(title, "title"); err != nil {
		return nil, err
	}
	if err := validateString(color, "color"); err != nil {
		return nil, err
	}

	// titulo carries COLLATE NOCASE, so plain equality matches any casing.
	var existingID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM categorias WHERE titulo = ?`, title).Scan(&existingID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %q", common.ErrDuplicateCategory, title)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categorias (titulo, cor, valor) VALUES (?, ?, 0)`, title, color)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: %q", common.ErrDuplicateCategory, title)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "title", title, "id", id)
	return &model.Category{
		ID:      id,
		Title:   title,
		Color:   color,
		Balance: 0,
	}, nil
}

// GetCategoryByID returns a single category or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, titulo, cor, valor FROM categorias WHERE id = ?`, id).
		Scan(&cat.ID, &cat.Title, &cat.Color, &cat.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByTitle returns a category by title (case-insensitive) or
// common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByTitle(ctx context.Context, title string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(title, "title"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, titulo, cor, valor FROM categorias WHERE titulo = ?`, title).
		Scan(&cat.ID, &cat.Title, &cat.Color, &cat.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, title)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// ListCategories returns all categories ordered by title.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.queryCategories(ctx, `SELECT id, titulo, cor, valor FROM categorias ORDER BY titulo ASC`)
}

// CategoriesByBalance returns all categories ranked by cached balance, highest
// spender first.
func (s *SQLiteStorage) CategoriesByBalance(ctx context.Context) ([]model.Category, error) {
	return s.queryCategories(ctx, `SELECT id, titulo, cor, valor FROM categorias ORDER BY valor DESC, titulo ASC`)
}

func (s *SQLiteStorage) queryCategories(ctx context.Context, query string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Title, &cat.Color, &cat.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// DeleteCategory removes the category and every transaction referencing it in
// one database transaction. This is destructive: the spending history is gone
// and no balance is restored anywhere. Callers own any confirmation prompt.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Cascade explicitly so the contract holds even if foreign_keys is off.
	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category transactions: %w", err)
	}
	deletedTxns, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM categorias WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category delete: %w", err)
	}

	slog.Info("deleted category", "id", id, "transactions_removed", deletedTxns)
	return nil
}

// DeleteAllCategories removes every category together with every transaction
// that references one. Income transactions, which carry no category, survive.
func (s *SQLiteStorage) DeleteAllCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE category_id IS NOT NULL`); err != nil {
		return fmt.Errorf("failed to delete categorized transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categorias`); err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("deleted all categories")
	return nil
}
