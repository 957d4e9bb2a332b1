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

func TestCreateTransaction_ExpenseUpdatesBalance(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)

	txn := mustCreateExpense(t, store, food.ID, 1500)
	assert.Positive(t, txn.ID)

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, got.Balance)

	assertBalanceInvariant(t, store)
}

func TestCreateTransaction_IncomeLeavesBalancesAlone(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)

	mustCreateIncome(t, store, 5000, "salary")

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Balance)
}

func TestCreateTransaction_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		txn  model.Transaction
	}{
		{
			name: "zero value",
			txn:  model.Transaction{Type: model.TypeExpense, Value: 0, Date: date, CategoryID: &food.ID},
		},
		{
			name: "negative value",
			txn:  model.Transaction{Type: model.TypeIncome, Value: -100, Date: date},
		},
		{
			name: "expense without category",
			txn:  model.Transaction{Type: model.TypeExpense, Value: 100, Date: date},
		},
		{
			name: "income with category",
			txn:  model.Transaction{Type: model.TypeIncome, Value: 100, Date: date, CategoryID: &food.ID},
		},
		{
			name: "unknown type",
			txn:  model.Transaction{Type: "transfer", Value: 100, Date: date},
		},
		{
			name: "missing date",
			txn:  model.Transaction{Type: model.TypeIncome, Value: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateTransaction(ctx, tt.txn)
			require.ErrorIs(t, err, common.ErrInvalidTransaction)
		})
	}
}

// A failed balance update must roll back the whole unit: the database may
// never show the transaction row without the balance change or vice versa.
func TestCreateTransaction_MissingCategoryRollsBack(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	missing := int64(777)
	_, err := store.CreateTransaction(ctx, model.Transaction{
		Type:       model.TypeExpense,
		Value:      1500,
		Date:       time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: &missing,
	})
	require.ErrorIs(t, err, common.ErrNotFound)

	// Neither the row nor any balance change survived.
	txns, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	total, err := store.TotalExpense(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestUpdateTransaction_ReconcilesValueChange(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	txn := mustCreateExpense(t, store, food.ID, 1500)

	txn.Value = 2000
	require.NoError(t, store.UpdateTransaction(ctx, *txn))

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, got.Balance)

	assertBalanceInvariant(t, store)
}

func TestUpdateTransaction_ReconcilesCategoryChange(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	transport, err := store.CreateCategory(ctx, "Transport", "#00FF00")
	require.NoError(t, err)

	txn := mustCreateExpense(t, store, food.ID, 1500)

	txn.CategoryID = &transport.ID
	require.NoError(t, store.UpdateTransaction(ctx, *txn))

	gotFood, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, gotFood.Balance)

	gotTransport, err := store.GetCategoryByID(ctx, transport.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, gotTransport.Balance)

	assertBalanceInvariant(t, store)
}

func TestUpdateTransaction_ExpenseToIncome(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	txn := mustCreateExpense(t, store, food.ID, 1500)

	txn.Type = model.TypeIncome
	txn.CategoryID = nil
	txn.Label = "refund"
	require.NoError(t, store.UpdateTransaction(ctx, *txn))

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Balance)

	income, err := store.TotalIncome(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, income)

	assertBalanceInvariant(t, store)
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.UpdateTransaction(context.Background(), model.Transaction{
		ID:    999,
		Type:  model.TypeIncome,
		Value: 100,
		Date:  time.Now(),
	})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteTransaction_ReversesContribution(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	txn := mustCreateExpense(t, store, food.ID, 1500)

	require.NoError(t, store.DeleteTransaction(ctx, txn.ID))

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Balance)

	_, err = store.GetTransactionByID(ctx, txn.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	assertBalanceInvariant(t, store)
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.DeleteTransaction(context.Background(), 12345)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteAllTransactions_FullReset(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	rent, err := store.CreateCategory(ctx, "Rent", "#00FF00")
	require.NoError(t, err)

	mustCreateExpense(t, store, food.ID, 1500)
	mustCreateExpense(t, store, rent.ID, 120000)
	mustCreateIncome(t, store, 500000, "salary")

	require.NoError(t, store.DeleteAllTransactions(ctx))

	txns, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	// Categories survive the reset with zeroed balances.
	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	for _, cat := range cats {
		assert.EqualValues(t, 0, cat.Balance)
	}

	assertBalanceInvariant(t, store)
}

func TestListTransactions_NewestFirstWithCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)

	older, err := store.CreateTransaction(ctx, model.Transaction{
		Type:       model.TypeExpense,
		Value:      1000,
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		CategoryID: &food.ID,
	})
	require.NoError(t, err)

	newer, err := store.CreateTransaction(ctx, model.Transaction{
		Type:  model.TypeIncome,
		Value: 5000,
		Date:  time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Label: "salary",
	})
	require.NoError(t, err)

	txns, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, newer.ID, txns[0].ID)
	assert.Equal(t, "salary", txns[0].Label)
	assert.Nil(t, txns[0].Category)

	assert.Equal(t, older.ID, txns[1].ID)
	require.NotNil(t, txns[1].Category)
	assert.Equal(t, "Food", txns[1].Category.Title)
	assert.Equal(t, "#FF0000", txns[1].Category.Color)
}

func TestTotals_SignedSumIdentity(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)

	mustCreateIncome(t, store, 5000, "salary")
	mustCreateIncome(t, store, 2500, "freelance")
	mustCreateExpense(t, store, food.ID, 1500)
	mustCreateExpense(t, store, food.ID, 300)

	income, err := store.TotalIncome(ctx)
	require.NoError(t, err)
	expense, err := store.TotalExpense(ctx)
	require.NoError(t, err)
	balance, err := store.TotalBalance(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 7500, income)
	assert.EqualValues(t, 1800, expense)
	assert.Equal(t, income-expense, balance)
}

// The worked ledger scenario: Food category, R$15.00 expense, R$50.00 income,
// then the expense is deleted.
func TestLedgerScenario(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	assert.EqualValues(t, 0, food.Balance)

	expense := mustCreateExpense(t, store, food.ID, 1500)

	got, err := store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, got.Balance)

	totalExpense, err := store.TotalExpense(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, totalExpense)

	balance, err := store.TotalBalance(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, -1500, balance)

	mustCreateIncome(t, store, 5000, "pay")

	income, err := store.TotalIncome(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5000, income)

	balance, err = store.TotalBalance(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3500, balance)

	require.NoError(t, store.DeleteTransaction(ctx, expense.ID))

	got, err = store.GetCategoryByID(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Balance)

	balance, err = store.TotalBalance(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5000, balance)

	assertBalanceInvariant(t, store)
}

// The invariant must hold after every step of an interleaved command sequence,
// not just at the end.
func TestBalanceInvariant_UnderInterleavedWrites(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	food, err := store.CreateCategory(ctx, "Food", "#FF0000")
	require.NoError(t, err)
	transport, err := store.CreateCategory(ctx, "Transport", "#00FF00")
	require.NoError(t, err)

	a := mustCreateExpense(t, store, food.ID, 1000)
	assertBalanceInvariant(t, store)

	b := mustCreateExpense(t, store, transport.ID, 2000)
	assertBalanceInvariant(t, store)

	mustCreateIncome(t, store, 9000, "salary")
	assertBalanceInvariant(t, store)

	a.Value = 1250
	a.CategoryID = &transport.ID
	require.NoError(t, store.UpdateTransaction(ctx, *a))
	assertBalanceInvariant(t, store)

	require.NoError(t, store.DeleteTransaction(ctx, b.ID))
	assertBalanceInvariant(t, store)

	require.NoError(t, store.DeleteCategory(ctx, transport.ID))
	assertBalanceInvariant(t, store)

	require.NoError(t, store.DeleteAllTransactions(ctx))
	assertBalanceInvariant(t, store)
}
