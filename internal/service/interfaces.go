// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"cofrinho/internal/model"
)

// Storage defines the contract for our persistence layer. Every multi-statement
// command executes as one database transaction: either all of its statements
// commit or none do, so the cached category balance can never drift from the
// transaction log.
type Storage interface {
	// Category operations
	CreateCategory(ctx context.Context, title, color string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByTitle(ctx context.Context, title string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CategoriesByBalance(ctx context.Context) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	DeleteAllCategories(ctx context.Context) error

	// Transaction operations
	CreateTransaction(ctx context.Context, txn model.Transaction) (*model.Transaction, error)
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	DeleteAllTransactions(ctx context.Context) error
	ListTransactions(ctx context.Context) ([]model.Transaction, error)

	// Aggregate queries
	TotalBalance(ctx context.Context) (int64, error)
	TotalIncome(ctx context.Context) (int64, error)
	TotalExpense(ctx context.Context) (int64, error)

	// Annotation operations
	CreateAnnotation(ctx context.Context, month string, kind model.AnnotationKind, items []model.AnnotationItem) (*model.Annotation, error)
	ListAnnotations(ctx context.Context) ([]model.Annotation, error)
	ReplaceAnnotationItems(ctx context.Context, id int64, month string, kind model.AnnotationKind, items []model.AnnotationItem) error
	DeleteAnnotation(ctx context.Context, id int64) error
	DeleteAnnotationItem(ctx context.Context, itemID int64) error
	SetAnnotationKind(ctx context.Context, id int64, kind model.AnnotationKind) error
	SetAnnotationItemDone(ctx context.Context, itemID int64, done bool) error

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}
