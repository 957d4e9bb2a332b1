// Package storage provides the data persistence layer for the cofrinho ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cofrinho/internal/common"
	"cofrinho/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidID   = errors.New("id must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a surrogate key is usable.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateTransaction enforces the write preconditions: positive value, known
// type, a date, a category for expenses and no category for income.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction is nil", common.ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", common.ErrInvalidTransaction, txn.Type)
	}
	if txn.Value <= 0 {
		return fmt.Errorf("%w: value must be positive, got %d", common.ErrInvalidTransaction, txn.Value)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidTransaction)
	}
	switch txn.Type {
	case model.TypeExpense:
		if txn.CategoryID == nil {
			return fmt.Errorf("%w: expense requires a category", common.ErrInvalidTransaction)
		}
		if *txn.CategoryID <= 0 {
			return fmt.Errorf("%w: invalid category id %d", common.ErrInvalidTransaction, *txn.CategoryID)
		}
	case model.TypeIncome:
		if txn.CategoryID != nil {
			return fmt.Errorf("%w: income cannot reference a category", common.ErrInvalidTransaction)
		}
	}
	return nil
}

// validateAnnotationItems checks the line items of an annotation write.
func validateAnnotationItems(items []model.AnnotationItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Content) == "" {
			return fmt.Errorf("%w: item %d has no content", common.ErrInvalidAnnotation, i)
		}
		if item.Value < 0 {
			return fmt.Errorf("%w: item %d has negative value", common.ErrInvalidAnnotation, i)
		}
	}
	return nil
}

// validateAnnotationKind rejects values outside the closed enum.
func validateAnnotationKind(kind model.AnnotationKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", common.ErrInvalidAnnotation, kind)
	}
	return nil
}
