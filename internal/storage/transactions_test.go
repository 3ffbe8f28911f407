package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/ledger"
	"github.com/jsalinas/tally/internal/model"
	"github.com/jsalinas/tally/internal/storage"
	"github.com/jsalinas/tally/internal/testutil"
)

// insertTransaction writes a transaction row directly, bypassing the
// ledger services, for exercising the storage layer on its own.
func insertTransaction(t *testing.T, store *storage.SQLiteStorage, txn *model.Transaction) int64 {
	t.Helper()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	id, err := tx.InsertTransaction(ctx, txn)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return id
}

func TestGetTransaction(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	account := testutil.CreateTestAccount(t, store, "Everyday", user.ID)

	id := insertTransaction(t, store, &model.Transaction{
		Amount:      decimal.RequireFromString("12.50"),
		DateTime:    time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC),
		CategoryID:  2,
		AccountID:   account.ID,
		Type:        model.TypeDebit,
		Description: "lunch",
	})

	txn, err := store.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Everyday", txn.AccountName)
	assert.Equal(t, "Food & Dining", txn.CategoryName)
	assert.Equal(t, model.TypeDebit, txn.Type)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "lunch", txn.Description)

	_, err = store.GetTransaction(ctx, 9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)
}

func TestListTransactions_OrderAndFilters(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	checking := testutil.CreateTestAccount(t, store, "Everyday", user.ID)
	savings := testutil.CreateTestAccount(t, store, "Savings", user.ID)

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	amounts := []struct {
		account  int64
		category int64
		offset   time.Duration
	}{
		{checking.ID, 2, 0},
		{savings.ID, 1, time.Hour},
		{checking.ID, 4, 2 * time.Hour},
	}
	for _, a := range amounts {
		insertTransaction(t, store, &model.Transaction{
			Amount:     decimal.RequireFromString("10"),
			DateTime:   base.Add(a.offset),
			CategoryID: a.category,
			AccountID:  a.account,
			Type:       model.TypeCredit,
		})
	}

	// No filter: everything, most recent first.
	all, err := store.ListTransactions(ctx, ledger.TransactionFilter{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].DateTime.Before(all[i].DateTime),
			"transactions out of order at %d", i)
	}

	// Account filter.
	accID := checking.ID
	scoped, err := store.ListTransactions(ctx, ledger.TransactionFilter{UserID: user.ID, AccountID: &accID})
	require.NoError(t, err)
	require.Len(t, scoped, 2)

	// Account + category filter.
	catID := int64(4)
	narrow, err := store.ListTransactions(ctx, ledger.TransactionFilter{UserID: user.ID, AccountID: &accID, CategoryID: &catID})
	require.NoError(t, err)
	require.Len(t, narrow, 1)
	assert.Equal(t, "Shopping", narrow[0].CategoryName)

	// No rows is an empty result, not an error.
	emptyCat := int64(9)
	empty, err := store.ListTransactions(ctx, ledger.TransactionFilter{UserID: user.ID, AccountID: &accID, CategoryID: &emptyCat})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListTransactions_ScopedToUser(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, store, "alice")
	bob := testutil.CreateTestUser(t, store, "bob")
	aliceAcc := testutil.CreateTestAccount(t, store, "Everyday", alice.ID)

	insertTransaction(t, store, &model.Transaction{
		Amount:     decimal.RequireFromString("10"),
		DateTime:   time.Now().UTC(),
		CategoryID: 1,
		AccountID:  aliceAcc.ID,
		Type:       model.TypeCredit,
	})

	theirs, err := store.ListTransactions(ctx, ledger.TransactionFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestDeleteTransaction(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	account := testutil.CreateTestAccount(t, store, "Everyday", user.ID)

	id := insertTransaction(t, store, &model.Transaction{
		Amount:     decimal.RequireFromString("10"),
		DateTime:   time.Now().UTC(),
		CategoryID: 1,
		AccountID:  account.ID,
		Type:       model.TypeCredit,
	})

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.DeleteTransaction(ctx, id))
	require.NoError(t, tx.Commit())

	_, err = store.GetTransaction(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)

	// Deleting again reports not found.
	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	err = tx.DeleteTransaction(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := testutil.SetupTestDB(t)

	// Running migrations again on an up-to-date database is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}
