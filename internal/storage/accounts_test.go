package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")

	account, err := store.CreateAccount(ctx, "Everyday", 1, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Everyday", account.Name)
	assert.Equal(t, "Checking", account.CategoryName)
	assert.Equal(t, user.ID, account.UserID)
	assert.True(t, account.Balance.IsZero(), "new accounts start at zero, got %s", account.Balance)
}

func TestCreateAccount_DuplicateNameAndCategory(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")

	_, err := store.CreateAccount(ctx, "Everyday", 1, user.ID)
	require.NoError(t, err)

	_, err = store.CreateAccount(ctx, "Everyday", 1, user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicateEntry), "got %v", err)

	// Same name under a different category is fine.
	_, err = store.CreateAccount(ctx, "Everyday", 2, user.ID)
	require.NoError(t, err)

	// Another user can reuse the name too.
	bob := testutil.CreateTestUser(t, store, "bob")
	_, err = store.CreateAccount(ctx, "Everyday", 1, bob.ID)
	require.NoError(t, err)
}

func TestGetAccount_ScopedToOwner(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, store, "alice")
	bob := testutil.CreateTestUser(t, store, "bob")
	account := testutil.CreateTestAccount(t, store, "Everyday", alice.ID)

	got, err := store.GetAccount(ctx, account.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = store.GetAccount(ctx, account.ID, bob.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)

	_, err = store.GetAccount(ctx, 9999, alice.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)
}

func TestUpdateAccountBalance_VersionConflict(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	account := testutil.CreateTestAccount(t, store, "Everyday", user.ID)

	// Two readers pick up the same version.
	stale, err := store.GetAccount(ctx, account.ID, user.ID)
	require.NoError(t, err)
	fresh, err := store.GetAccount(ctx, account.ID, user.ID)
	require.NoError(t, err)

	// First writer wins.
	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	fresh.Balance = decimal.RequireFromString("100")
	require.NoError(t, tx.UpdateAccountBalance(ctx, fresh))
	require.NoError(t, tx.Commit())

	// Second writer holds a stale version and must lose.
	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	stale.Balance = decimal.RequireFromString("50")
	err = tx.UpdateAccountBalance(ctx, stale)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict), "got %v", err)
}

func TestListAccounts(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	other := testutil.CreateTestUser(t, store, "bob")

	testutil.CreateTestAccount(t, store, "Savings", user.ID)
	testutil.CreateTestAccount(t, store, "Everyday", user.ID)
	testutil.CreateTestAccount(t, store, "Theirs", other.ID)

	accounts, err := store.ListAccounts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	// Ordered by name.
	assert.Equal(t, "Everyday", accounts[0].Name)
	assert.Equal(t, "Savings", accounts[1].Name)
}

func TestCategoriesSeeded(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	accountCats, err := store.ListAccountCategories(ctx)
	require.NoError(t, err)
	require.Len(t, accountCats, 5)
	assert.Equal(t, "Checking", accountCats[0].Name)

	txCats, err := store.ListTransactionCategories(ctx)
	require.NoError(t, err)
	require.Len(t, txCats, 10)
	assert.Equal(t, "Income", txCats[0].Name)
	assert.Equal(t, "Other", txCats[9].Name)

	other, err := store.GetTransactionCategory(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Other", other.Name)
}
