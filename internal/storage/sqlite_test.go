package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStorage returns a migrated in-memory store.
func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, store.Migrate(context.Background()), "failed to run migrations")

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// assertBalanceInvariant checks that every cached category balance equals the
// sum of live expense transactions referencing it.
func assertBalanceInvariant(t *testing.T, store *SQLiteStorage) {
	t.Helper()

	rows, err := store.db.Query(`
		SELECT c.id, c.valor,
			COALESCE((SELECT SUM(t.value) FROM transactions t
				WHERE t.category_id = c.id AND t.type = 'saida'), 0)
		FROM categorias c`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, cached, actual int64
		require.NoError(t, rows.Scan(&id, &cached, &actual))
		require.Equalf(t, actual, cached,
			"category %d: cached balance %d diverged from expense sum %d", id, cached, actual)
	}
	require.NoError(t, rows.Err())
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
}

func TestNewSQLiteStorage_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStorage(dir + "/nested/ledger.db")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
}

func TestStorage_NilContext(t *testing.T) {
	store := newTestStorage(t)

	//nolint:staticcheck // passing nil context on purpose
	_, err := store.ListCategories(nil)
	require.ErrorIs(t, err, ErrNilContext)
}
