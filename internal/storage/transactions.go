package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cofrinho/internal/common"
	"cofrinho/internal/model"
)

// Transaction dates are persisted as ISO-8601 text.
const dateFormat = time.RFC3339

// CreateTransaction inserts a transaction row. For an expense, the referenced
// category's cached balance is incremented by the transaction value inside the
// same database transaction as the insert: either both land or neither does.
// This is the core consistency guarantee of the ledger. The category must
// already exist; a missing id rolls everything back with common.ErrNotFound.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(&txn); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (category_id, type, value, date, label) VALUES (?, ?, ?, ?, ?)`,
		txn.CategoryID, string(txn.Type), txn.Value, txn.Date.Format(dateFormat), nullableLabel(txn.Label))
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if txn.Type == model.TypeExpense {
		if err := applyBalanceDelta(ctx, tx, *txn.CategoryID, txn.Value); err != nil {
			return nil, err
		}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction insert: %w", err)
	}

	txn.ID = id
	slog.Debug("created transaction", "id", id, "type", txn.Type, "value", txn.Value)
	return &txn, nil
}

// UpdateTransaction rewrites a transaction and reconciles both sides of the
// balance invariant symmetrically: the old row's expense contribution is
// subtracted from its old category, then the new contribution is added to the
// new one, all in the same database transaction. In balance terms this is a
// delete followed by a recreate.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(txn.ID, "id"); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	old, err := getTransactionTx(ctx, tx, txn.ID)
	if err != nil {
		return err
	}

	if old.Type == model.TypeExpense {
		if err := applyBalanceDelta(ctx, tx, *old.CategoryID, -old.Value); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, type = ?, value = ?, date = ?, label = ? WHERE id = ?`,
		txn.CategoryID, string(txn.Type), txn.Value, txn.Date.Format(dateFormat), nullableLabel(txn.Label), txn.ID); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if txn.Type == model.TypeExpense {
		if err := applyBalanceDelta(ctx, tx, *txn.CategoryID, txn.Value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction update: %w", err)
	}

	slog.Debug("updated transaction", "id", txn.ID)
	return nil
}

// DeleteTransaction reverses the row's expense contribution to its category
// balance and removes the row, as one atomic unit.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) error {
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

	old, err := getTransactionTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if old.Type == model.TypeExpense {
		if err := applyBalanceDelta(ctx, tx, *old.CategoryID, -old.Value); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction delete: %w", err)
	}

	slog.Debug("deleted transaction", "id", id)
	return nil
}

// DeleteAllTransactions clears the transaction log and zeroes every cached
// category balance in one database transaction. This is a full reset of the
// ledger, not a loop of single deletes.
func (s *SQLiteStorage) DeleteAllTransactions(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE categorias SET valor = 0`); err != nil {
		return fmt.Errorf("failed to reset category balances: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	slog.Info("deleted all transactions")
	return nil
}

// GetTransactionByID returns a single transaction with its category attributes
// joined, or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.type, t.value, t.date, t.label,
			c.id, c.titulo, c.cor, c.valor
		FROM transactions t
		LEFT JOIN categorias c ON t.category_id = c.id
		WHERE t.id = ?`, id)

	txn, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns the full transaction log joined with category
// attributes, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.type, t.value, t.date, t.label,
			c.id, c.titulo, c.cor, c.valor
		FROM transactions t
		LEFT JOIN categorias c ON t.category_id = c.id
		ORDER BY t.date DESC, t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// TotalBalance is the signed sum over the whole transaction log: income counts
// positive, expense negative.
func (s *SQLiteStorage) TotalBalance(ctx context.Context) (int64, error) {
	return s.sumQuery(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'entrada' THEN value ELSE -value END), 0)
		FROM transactions`)
}

// TotalIncome is the unsigned sum of income transactions.
func (s *SQLiteStorage) TotalIncome(ctx context.Context) (int64, error) {
	return s.sumQuery(ctx, `SELECT COALESCE(SUM(value), 0) FROM transactions WHERE type = 'entrada'`)
}

// TotalExpense is the unsigned sum of expense transactions.
func (s *SQLiteStorage) TotalExpense(ctx context.Context) (int64, error) {
	return s.sumQuery(ctx, `SELECT COALESCE(SUM(value), 0) FROM transactions WHERE type = 'saida'`)
}

func (s *SQLiteStorage) sumQuery(ctx context.Context, query string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute sum: %w", err)
	}
	return total, nil
}

// applyBalanceDelta adjusts a category's cached balance inside an open
// database transaction. Zero affected rows means the category does not exist,
// which must roll back the surrounding unit of work.
func applyBalanceDelta(ctx context.Context, tx *sql.Tx, categoryID, delta int64) error {
	res, err := tx.ExecContext(ctx, `UPDATE categorias SET valor = valor + ? WHERE id = ?`, delta, categoryID)
	if err != nil {
		return fmt.Errorf("failed to update category balance: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, categoryID)
	}
	return nil
}

// getTransactionTx reads the columns the balance reconciliation needs, within
// an open database transaction.
func getTransactionTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		txnType    string
		categoryID sql.NullInt64
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, type, value, category_id FROM transactions WHERE id = ?`, id).
		Scan(&txn.ID, &txnType, &txn.Value, &categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction: %w", err)
	}

	txn.Type = model.TransactionType(txnType)
	if categoryID.Valid {
		txn.CategoryID = &categoryID.Int64
	}
	return &txn, nil
}

// scanTransaction decodes one joined transaction row.
func scanTransaction(scan func(...any) error) (*model.Transaction, error) {
	var (
		txn      model.Transaction
		txnType  string
		dateText string
		label    sql.NullString
		catID    sql.NullInt64
		catTitle sql.NullString
		catColor sql.NullString
		catValue sql.NullInt64
	)

	if err := scan(&txn.ID, &txnType, &txn.Value, &dateText, &label,
		&catID, &catTitle, &catColor, &catValue); err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txnType)
	txn.Label = label.String

	date, err := time.Parse(dateFormat, dateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction date %q: %w", dateText, err)
	}
	txn.Date = date

	if catID.Valid {
		txn.CategoryID = &catID.Int64
		txn.Category = &model.Category{
			ID:      catID.Int64,
			Title:   catTitle.String,
			Color:   catColor.String,
			Balance: catValue.Int64,
		}
	}

	return &txn, nil
}

func nullableLabel(label string) any {
	if label == "" {
		return nil
	}
	return label
}
