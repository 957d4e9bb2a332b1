package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"cofrinho/internal/common"
	"cofrinho/internal/model"
)

// CreateAnnotation inserts the annotation row and all of its items as one
// database transaction. The returned annotation carries the generated ids.
func (s *SQLiteStorage) CreateAnnotation(ctx context.Context, month string, kind model.AnnotationKind, items []model.AnnotationItem) (*model.Annotation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(month, "month"); err != nil {
		return nil, err
	}
	if err := validateAnnotationKind(kind); err != nil {
		return nil, err
	}
	if err := validateAnnotationItems(items); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO anotacoes (mes, tipo) VALUES (?, ?)`, month, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to insert annotation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get annotation ID: %w", err)
	}

	saved, err := insertItemsTx(ctx, tx, id, items)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit annotation: %w", err)
	}

	slog.Info("created annotation", "id", id, "month", month, "items", len(saved))
	return &model.Annotation{
		ID:    id,
		Month: month,
		Kind:  kind,
		Items: saved,
	}, nil
}

// ListAnnotations returns all annotations with their items eagerly loaded.
// One item query per annotation; fine at budget-note scale.
func (s *SQLiteStorage) ListAnnotations(ctx context.Context) ([]model.Annotation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, mes, tipo FROM anotacoes ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var annotations []model.Annotation
	for rows.Next() {
		var (
			a    model.Annotation
			kind string
		)
		if err := rows.Scan(&a.ID, &a.Month, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		a.Kind = model.AnnotationKind(kind)
		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}

	for i := range annotations {
		items, err := s.annotationItems(ctx, annotations[i].ID)
		if err != nil {
			return nil, err
		}
		annotations[i].Items = items
	}

	return annotations, nil
}

func (s *SQLiteStorage) annotationItems(ctx context.Context, annotationID int64) ([]model.AnnotationItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, anotacao_id, conteudo, valor, concluido
		FROM anotacao_itens
		WHERE anotacao_id = ?
		ORDER BY id ASC`, annotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotation items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.AnnotationItem
	for rows.Next() {
		var (
			item      model.AnnotationItem
			completed int
		)
		if err := rows.Scan(&item.ID, &item.AnnotationID, &item.Content, &item.Value, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan annotation item: %w", err)
		}
		item.Completed = completed != 0
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotation items: %w", err)
	}

	return items, nil
}

// ReplaceAnnotationItems updates the annotation's scalar fields, drops every
// existing item and inserts the provided set fresh, as one database
// transaction. Callers supply the complete desired item list, not a delta;
// an empty list simply empties the note.
func (s *SQLiteStorage) ReplaceAnnotationItems(ctx context.Context, id int64, month string, kind model.AnnotationKind, items []model.AnnotationItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateString(month, "month"); err != nil {
		return err
	}
	if err := validateAnnotationKind(kind); err != nil {
		return err
	}
	if err := validateAnnotationItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE anotacoes SET mes = ?, tipo = ? WHERE id = ?`, month, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to update annotation: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: annotation %d", common.ErrNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM anotacao_itens WHERE anotacao_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear annotation items: %w", err)
	}
	if _, err := insertItemsTx(ctx, tx, id, items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit annotation replace: %w", err)
	}

	slog.Debug("replaced annotation items", "id", id, "items", len(items))
	return nil
}

// DeleteAnnotation removes the annotation and all its items as one database
// transaction. The cascade is explicit, items first, so ordering never depends
// on the engine's foreign-key enforcement.
func (s *SQLiteStorage) DeleteAnnotation(ctx context.Context, id int64) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM anotacao_itens WHERE anotacao_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete annotation items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM anotacoes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: annotation %d", common.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit annotation delete: %w", err)
	}

	slog.Info("deleted annotation", "id", id)
	return nil
}

// DeleteAnnotationItem removes a single item. Siblings are untouched.
func (s *SQLiteStorage) DeleteAnnotationItem(ctx context.Context, itemID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(itemID, "itemID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM anotacao_itens WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete annotation item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: annotation item %d", common.ErrNotFound, itemID)
	}
	return nil
}

// SetAnnotationKind updates only the kind field.
func (s *SQLiteStorage) SetAnnotationKind(ctx context.Context, id int64, kind model.AnnotationKind) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateAnnotationKind(kind); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE anotacoes SET tipo = ? WHERE id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to update annotation kind: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: annotation %d", common.ErrNotFound, id)
	}
	return nil
}

// SetAnnotationItemDone toggles an item's completed flag.
func (s *SQLiteStorage) SetAnnotationItemDone(ctx context.Context, itemID int64, done bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(itemID, "itemID"); err != nil {
		return err
	}

	completed := 0
	if done {
		completed = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE anotacao_itens SET concluido = ? WHERE id = ?`, completed, itemID)
	if err != nil {
		return fmt.Errorf("failed to update annotation item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: annotation item %d", common.ErrNotFound, itemID)
	}
	return nil
}

// insertItemsTx inserts an annotation's items within an open database
// transaction, returning them with generated ids.
func insertItemsTx(ctx context.Context, tx *sql.Tx, annotationID int64, items []model.AnnotationItem) ([]model.AnnotationItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO anotacao_itens (anotacao_id, conteudo, valor, concluido) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	saved := make([]model.AnnotationItem, 0, len(items))
	for _, item := range items {
		completed := 0
		if item.Completed {
			completed = 1
		}
		result, err := stmt.ExecContext(ctx, annotationID, item.Content, item.Value, completed)
		if err != nil {
			return nil, fmt.Errorf("failed to insert annotation item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get item ID: %w", err)
		}
		item.ID = id
		item.AnnotationID = annotationID
		saved = append(saved, item)
	}

	return saved, nil
}
