package storage

import (
	"context"
	"testing"
	"time"

	"cofrinho/internal/common"
	"cofrinho/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	assert.Equal(t, "Food", cat.Title)
	assert.Equal(t, "#FF0000", cat.Color)
	assert.EqualValues(t, 0, cat.Balance)
	assert.Positive(t, cat.ID)
}

func TestCreateCategory_DuplicateTitle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)

	_, err = store.CreateCategory(ctx, "Food", "#00FF00")
	require.ErrorIs(t, err, common.ErrDuplicateCategory)

	// Uniqueness is case-insensitive.
	_, err = store.CreateCategory(ctx, "FOOD", "#0000FF")
	require.ErrorIs(t, err, common.ErrDuplicateCategory)
}

func TestCreateCategory_EmptyFields(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "", "#FF0000")
	require.ErrorIs(t, err, ErrEmptyString)

	_, err = store.CreateCategory(ctx, "Food", "  ")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestGetCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateCategory(ctx, "Transport", "#00AAFF")
	require.NoError(t, err)

	byID, err := store.GetCategoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, byID.Title)

	byTitle, err := store.GetCategoryByTitle(ctx, "transport")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byTitle.ID)

	_, err = store.GetCategoryByID(ctx, 9999)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetCategoryByTitle(ctx, "Missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListCategories_OrderedByTitle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, title := range []string{"Transport", "Food", "Health"} {
		_, err := store.CreateCategory(ctx, title, "#FFFFFF")
		require.NoError(t, err)
	}

	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Food", cats[0].Title)
	assert.Equal(t, "Health", cats[1].Title)
	assert.Equal(t, "Transport", cats[2].Title)
}

func TestCategoriesByBalance_Ranking(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	rent, err := store.CreateCategory(ctx, "Rent", "#00FF00")
	require.NoError(t, err)

	mustCreateExpense(t, store, food.ID, 1500)
	mustCreateExpense(t, store, rent.ID, 120000)

	ranked, err := store.CategoriesByBalance(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Rent", ranked[0].Title)
	assert.EqualValues(t, 120000, ranked[0].Balance)
	assert.Equal(t, "Food", ranked[1].Title)
	assert.EqualValues(t, 1500, ranked[1].Balance)
}

func TestDeleteCategory_CascadesToTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	mustCreateExpense(t, store, food.ID, 1000)
	mustCreateExpense(t, store, food.ID, 2500)
	mustCreateIncome(t, store, 5000, "salary")

	require.NoError(t, store.DeleteCategory(ctx, food.ID))

	_, err = store.GetCategoryByID(ctx, food.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	// The spending history is gone; the labeled income survives, and totals
	// reflect the removal of the expense contributions.
	txns, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TypeIncome, txns[0].Type)

	total, err := store.TotalBalance(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5000, total)

	assertBalanceInvariant(t, store)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.DeleteCategory(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteAllCategories(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	mustCreateExpense(t, store, food.ID, 700)
	mustCreateIncome(t, store, 9000, "salary")

	require.NoError(t, store.DeleteAllCategories(ctx))

	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	txns, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.TypeIncome, txns[0].Type)
}

// mustCreateExpense inserts an expense against the given category.
func mustCreateExpense(t *testing.T, store *SQLiteStorage, categoryID, value int64) *model.Transaction {
	t.Helper()
	txn, err := store.CreateTransaction(context.Background(), model.Transaction{
		Type:       model.TypeExpense,
		Value:      value,
		Date:       time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	return txn
}

// mustCreateIncome inserts a labeled income transaction.
func mustCreateIncome(t *testing.T, store *SQLiteStorage, value int64, label string) *model.Transaction {
	t.Helper()
	txn, err := store.CreateTransaction(context.Background(), model.Transaction{
		Type:  model.TypeIncome,
		Value: value,
		Date:  time.Date(2024, 5, 11, 12, 0, 0, 0, time.UTC),
		Label: label,
	})
	require.NoError(t, err)
	return txn
}
